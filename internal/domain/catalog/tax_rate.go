package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// TaxRate is a sales tax percentage applied to product lines (e.g. IVA 19%).
type TaxRate struct {
	shared.BaseEntity
	Code       string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name       string          `gorm:"type:varchar(100);not null"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Active     bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaxRate) TableName() string {
	return "tax_rates"
}

// NewTaxRate creates an active tax rate
func NewTaxRate(code, name string, percentage decimal.Decimal) (*TaxRate, error) {
	t := &TaxRate{BaseEntity: shared.NewBaseEntity(), Active: true}
	if err := t.Update(code, name, percentage); err != nil {
		return nil, err
	}
	return t, nil
}

// Update validates and applies new values
func (t *TaxRate) Update(code, name string, percentage decimal.Decimal) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 20 {
		return shared.NewValidationError("Tax rate code must be between 1 and 20 characters")
	}
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("Tax rate name cannot be empty")
	}
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return shared.NewValidationError("Tax percentage must be between 0 and 100")
	}
	t.Code = code
	t.Name = name
	t.Percentage = percentage
	t.Touch()
	return nil
}

// SetActive toggles the active flag
func (t *TaxRate) SetActive(active bool) {
	t.Active = active
	t.Touch()
}
