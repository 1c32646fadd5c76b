package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/shared"
)

// ThirdPartyRepository defines the interface for third party persistence
type ThirdPartyRepository interface {
	shared.Repository[ThirdParty]

	// ExistsByIdentification checks if a third party other than excludeID
	// uses the identification type and number
	ExistsByIdentification(ctx context.Context, identificationTypeID uuid.UUID, number string, excludeID uuid.UUID) (bool, error)

	// FindCustomers lists active third parties flagged as customers
	FindCustomers(ctx context.Context, filter shared.Filter) ([]ThirdParty, error)

	// CountCustomers counts active customers
	CountCustomers(ctx context.Context) (int64, error)
}

// IdentificationTypeRepository defines the interface for identification type persistence
type IdentificationTypeRepository interface {
	shared.Repository[IdentificationType]

	// ExistsByCode checks if an identification type other than excludeID uses code
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
}
