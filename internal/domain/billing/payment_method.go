package billing

import (
	"strings"

	"github.com/supermercado/backend/internal/domain/shared"
)

// PaymentMethod is a way of paying an invoice (cash, card, transfer...)
type PaymentMethod struct {
	shared.BaseEntity
	Code   string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name   string `gorm:"type:varchar(100);not null"`
	Active bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// NewPaymentMethod creates an active payment method
func NewPaymentMethod(code, name string) (*PaymentMethod, error) {
	p := &PaymentMethod{BaseEntity: shared.NewBaseEntity(), Active: true}
	if err := p.Update(code, name); err != nil {
		return nil, err
	}
	return p, nil
}

// Update validates and applies new values
func (p *PaymentMethod) Update(code, name string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 20 {
		return shared.NewValidationError("Payment method code must be between 1 and 20 characters")
	}
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("Payment method name cannot be empty")
	}
	p.Code = code
	p.Name = strings.TrimSpace(name)
	p.Touch()
	return nil
}

// SetActive toggles the active flag
func (p *PaymentMethod) SetActive(active bool) {
	p.Active = active
	p.Touch()
}
