package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/catalog"
	"github.com/supermercado/backend/internal/domain/shared"
)

// StockRequest is a product and the quantity a line wants to take
type StockRequest struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// StockSource loads products for stock checks. Inside a transaction the
// implementation locks the rows it returns.
type StockSource interface {
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// StockValidator checks every requested quantity is on hand.
// It stops at the first failing line and never mutates anything.
type StockValidator struct {
	source StockSource
}

// NewStockValidator creates a validator reading from source
func NewStockValidator(source StockSource) *StockValidator {
	return &StockValidator{source: source}
}

// Validate returns NOT_FOUND for a missing product or an
// *InsufficientStockError for the first short line.
func (v *StockValidator) Validate(ctx context.Context, requests []StockRequest) error {
	for _, req := range requests {
		product, err := v.source.FindByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Product", req.ProductID)
			}
			return err
		}
		if !product.HasStock(req.Quantity) {
			return NewInsufficientStockError(product.ID, product.Name, product.StockCurrent, req.Quantity)
		}
	}
	return nil
}
