package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/shared"
)

// ProductLookup answers uniqueness questions about product business keys.
// Only the product storage component implements it.
type ProductLookup interface {
	// ExistsByCode checks if a product other than excludeID uses code
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)

	// ExistsByBarcode checks if a product other than excludeID uses barcode
	ExistsByBarcode(ctx context.Context, barcode string, excludeID uuid.UUID) (bool, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	shared.Repository[Product]
	ProductLookup

	// FindByIDForUpdate loads a product and locks its row until the
	// surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// UpdateDetails persists every field except StockCurrent, which only
	// DecreaseStock and IncreaseStock change after creation.
	UpdateDetails(ctx context.Context, product *Product) error

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAvailable lists active products with stock on hand
	FindAvailable(ctx context.Context, filter shared.Filter) ([]Product, error)

	// CountBelowMinimum counts active products at or under their minimum stock
	CountBelowMinimum(ctx context.Context) (int64, error)

	// DecreaseStock subtracts qty only when enough stock is on hand.
	// Returns ErrInsufficientStock when the guard fails.
	DecreaseStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error

	// IncreaseStock adds qty back to the product
	IncreaseStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error
}

// TaxRateRepository defines the interface for tax rate persistence
type TaxRateRepository interface {
	shared.Repository[TaxRate]

	// FindByIDs finds multiple tax rates by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]TaxRate, error)

	// ExistsByCode checks if a tax rate other than excludeID uses code
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
}
