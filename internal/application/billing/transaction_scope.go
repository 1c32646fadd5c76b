package billing

import (
	"context"

	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/catalog"
	"github.com/supermercado/backend/internal/domain/identity"
	"github.com/supermercado/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the repositories an
// invoice touches. All repository operations executed inside the function
// are committed or rolled back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	TaxRateRepo() catalog.TaxRateRepository
	ThirdPartyRepo() partner.ThirdPartyRepository
	UserRepo() identity.UserRepository
	DocumentTypeRepo() billing.DocumentTypeRepository
	ConsecutiveRepo() billing.ConsecutiveRepository
	PaymentMethodRepo() billing.PaymentMethodRepository
	MovementRepo() billing.MovementRepository
	InvoiceRepo() billing.InvoiceRepository
}
