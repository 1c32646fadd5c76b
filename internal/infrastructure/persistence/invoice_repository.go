package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements the write side of invoices using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts the invoice header. Lines and payments are written by
// their own calls so each step can fail on its own.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(invoice).Error)
}

// CreateLine inserts one invoice line
func (r *GormInvoiceRepository) CreateLine(ctx context.Context, line *billing.InvoiceLine) error {
	return translateError(r.db.WithContext(ctx).Create(line).Error)
}

// CreatePayments inserts the payment allocations in one statement
func (r *GormInvoiceRepository) CreatePayments(ctx context.Context, payments []billing.InvoicePayment) error {
	if len(payments) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Create(&payments).Error)
}

// FindByIDForUpdate locks the invoice row, then loads lines and payments
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("created_at ASC").
		Find(&invoice.Lines).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("created_at ASC").
		Find(&invoice.Payments).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateStatus writes the status and void fields. The update only applies
// when the stored version is the one the invoice was loaded with.
func (r *GormInvoiceRepository) UpdateStatus(ctx context.Context, invoice *billing.Invoice) error {
	result := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(map[string]any{
			"status":      invoice.Status,
			"voided_at":   invoice.VoidedAt,
			"voided_by":   invoice.VoidedBy,
			"void_reason": invoice.VoidReason,
			"version":     invoice.Version,
			"updated_at":  invoice.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
