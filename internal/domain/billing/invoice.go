package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/shared"
)

// DefaultVoidWindow is how long after issuance an invoice may be voided
const DefaultVoidWindow = 30 * 24 * time.Hour

// Invoice holds the totals of a sale and owns its lines and payments
type Invoice struct {
	shared.BaseAggregateRoot
	MovementID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	GrossTotal    decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	DiscountTotal decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	TaxTotal      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	NetTotal      decimal.Decimal  `gorm:"type:decimal(18,2);not null;index"`
	Status        InvoiceStatus    `gorm:"type:varchar(20);not null;default:'ISSUED';index"`
	VoidedAt      *time.Time       `gorm:""`
	VoidedBy      *uuid.UUID       `gorm:"type:uuid"`
	VoidReason    string           `gorm:"type:varchar(500)"`
	Lines         []InvoiceLine    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments      []InvoicePayment `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceLine is one product sold on an invoice
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountValue      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	GrossAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxPercentage      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(18,2);not null"` // quantity*price - discount
	Total              decimal.Decimal `gorm:"type:decimal(18,2);not null"` // subtotal + tax
}

// TableName returns the table name for GORM
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// InvoicePayment allocates part of the invoice total to a payment method
type InvoicePayment struct {
	shared.BaseEntity
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Reference       string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (InvoicePayment) TableName() string {
	return "invoice_payments"
}

// NewInvoice creates an issued invoice for a movement
func NewInvoice(movementID uuid.UUID, totals Totals) (*Invoice, error) {
	if movementID == uuid.Nil {
		return nil, shared.NewValidationError("Movement is required")
	}
	if !totals.IsBalanced() {
		return nil, shared.NewValidationError("Net total %s does not equal gross - discount + tax", totals.Net.StringFixed(2))
	}
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MovementID:        movementID,
		GrossTotal:        totals.Gross,
		DiscountTotal:     totals.Discount,
		TaxTotal:          totals.Tax,
		NetTotal:          totals.Net,
		Status:            InvoiceStatusIssued,
	}, nil
}

// NewInvoiceLine builds a line from its input and computed amounts
func NewInvoiceLine(invoiceID, productID uuid.UUID, in LineInput, amounts LineAmounts) InvoiceLine {
	return InvoiceLine{
		BaseEntity:         shared.NewBaseEntity(),
		InvoiceID:          invoiceID,
		ProductID:          productID,
		Quantity:           in.Quantity,
		UnitPrice:          in.UnitPrice,
		DiscountPercentage: in.DiscountPercentage,
		DiscountValue:      amounts.Discount,
		GrossAmount:        amounts.Gross,
		TaxPercentage:      in.TaxPercentage,
		TaxAmount:          amounts.Tax,
		Subtotal:           amounts.TaxableBase,
		Total:              amounts.Total,
	}
}

// NewInvoicePayment builds a payment allocation
func NewInvoicePayment(invoiceID, paymentMethodID uuid.UUID, amount decimal.Decimal, reference string) (InvoicePayment, error) {
	if !amount.IsPositive() {
		return InvoicePayment{}, shared.NewValidationError("Payment amount must be greater than zero")
	}
	if len(reference) > 100 {
		return InvoicePayment{}, shared.NewValidationError("Payment reference cannot exceed 100 characters")
	}
	return InvoicePayment{
		BaseEntity:      shared.NewBaseEntity(),
		InvoiceID:       invoiceID,
		PaymentMethodID: paymentMethodID,
		Amount:          amount,
		Reference:       strings.TrimSpace(reference),
	}, nil
}

// IsVoided returns true once the invoice has been voided
func (i *Invoice) IsVoided() bool {
	return i.Status == InvoiceStatusVoided
}

// PaidAmount sums the loaded payments
func (i *Invoice) PaidAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range i.Payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// CheckVoidable enforces the void rules without changing state.
// issuedAt is the movement date; window is how long voiding stays open.
func (i *Invoice) CheckVoidable(issuedAt, now time.Time, window time.Duration) error {
	if !i.Status.CanTransitionTo(InvoiceStatusVoided) {
		return shared.NewBusinessRuleError("Invoice is already voided")
	}
	if now.Sub(issuedAt) > window {
		return shared.NewBusinessRuleError("Invoice is more than %s old and cannot be voided", describeWindow(window))
	}
	return nil
}

// describeWindow renders whole days or hours as such and anything else as a duration
func describeWindow(window time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case window == day:
		return "1 day"
	case window > 0 && window%day == 0:
		return fmt.Sprintf("%d days", int64(window/day))
	case window == time.Hour:
		return "1 hour"
	case window > 0 && window%time.Hour == 0:
		return fmt.Sprintf("%d hours", int64(window/time.Hour))
	default:
		return window.String()
	}
}

// Void moves the invoice to VOIDED
func (i *Invoice) Void(by uuid.UUID, reason string, issuedAt, now time.Time, window time.Duration) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("A reason is required to void an invoice")
	}
	if len(reason) > 500 {
		return shared.NewValidationError("Void reason cannot exceed 500 characters")
	}
	if err := i.CheckVoidable(issuedAt, now, window); err != nil {
		return err
	}
	i.Status = InvoiceStatusVoided
	i.VoidedAt = &now
	i.VoidedBy = &by
	i.VoidReason = reason
	i.IncrementVersion()
	return nil
}
