package billing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/shared"
)

// InsufficientStockError is returned when a line asks for more than is on hand.
type InsufficientStockError struct {
	*shared.DomainError
	ProductID   uuid.UUID
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

// NewInsufficientStockError builds the error with a readable message
func NewInsufficientStockError(productID uuid.UUID, productName string, available, requested decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		DomainError: shared.NewDomainError(
			shared.CodeInsufficientStock,
			fmt.Sprintf("Insufficient stock for product %s: available %s, requested %s",
				productName, available.String(), requested.String()),
		),
		ProductID:   productID,
		ProductName: productName,
		Available:   available,
		Requested:   requested,
	}
}

// Unwrap exposes the DomainError so errors.As and errors.Is keep working.
func (e *InsufficientStockError) Unwrap() error {
	return e.DomainError
}

// NewRangeExhaustedError reports a consecutive with no numbers left.
func NewRangeExhaustedError(prefix string, end int64) *shared.DomainError {
	return shared.NewDomainError(shared.CodeRangeExhausted,
		fmt.Sprintf("Numbering range for consecutive %s is exhausted (end %d)", prefix, end))
}
