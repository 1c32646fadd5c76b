package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/shared"
)

// DocumentTypeRepository defines the interface for document type persistence
type DocumentTypeRepository interface {
	shared.Repository[DocumentType]

	// FindByCode finds a document type by its code
	FindByCode(ctx context.Context, code string) (*DocumentType, error)

	// ExistsByCode checks if a document type other than excludeID uses code
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
}

// PaymentMethodRepository defines the interface for payment method persistence
type PaymentMethodRepository interface {
	shared.Repository[PaymentMethod]

	// FindActive lists active payment methods
	FindActive(ctx context.Context) ([]PaymentMethod, error)

	// ExistsByCode checks if a payment method other than excludeID uses code
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
}

// ConsecutiveRepository defines the interface for numbering counters
type ConsecutiveRepository interface {
	shared.Repository[Consecutive]

	// FindActiveByDocumentTypeForUpdate loads the active counter of a document
	// type and locks its row until the surrounding transaction ends
	FindActiveByDocumentTypeForUpdate(ctx context.Context, documentTypeID uuid.UUID) (*Consecutive, error)

	// AdvanceFrom moves the counter from expected to expected+1. It fails with
	// ErrConcurrencyConflict when the stored value is no longer expected and
	// with RANGE_EXHAUSTED when the counter already sits at the range end.
	AdvanceFrom(ctx context.Context, id uuid.UUID, expected int64) error
}

// MovementRepository defines the interface for document headers
type MovementRepository interface {
	// Create inserts a new movement
	Create(ctx context.Context, movement *Movement) error

	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)

	// UpdateNotes stores the notes field of a movement
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
}

// InvoiceRepository defines the write side of invoices
type InvoiceRepository interface {
	// Create inserts the invoice header only
	Create(ctx context.Context, invoice *Invoice) error

	// CreateLine inserts one invoice line
	CreateLine(ctx context.Context, line *InvoiceLine) error

	// CreatePayments inserts the payment allocations
	CreatePayments(ctx context.Context, payments []InvoicePayment) error

	// FindByIDForUpdate loads an invoice with its lines and payments and
	// locks the invoice row
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// UpdateStatus persists status and void fields with optimistic locking
	UpdateStatus(ctx context.Context, invoice *Invoice) error
}

// InvoiceReader is the read side that assembles invoice views
type InvoiceReader interface {
	// FindView assembles one invoice
	FindView(ctx context.Context, id uuid.UUID) (*InvoiceView, error)

	// Search lists invoice views matching the filter
	Search(ctx context.Context, filter InvoiceFilter) ([]InvoiceView, int64, error)

	// FindPendingPayment lists invoices whose payments do not cover the net total
	FindPendingPayment(ctx context.Context, filter shared.Filter) ([]InvoiceView, error)

	// SalesTotals counts issued invoices with issue date in [from, to) and
	// sums their net totals
	SalesTotals(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error)
}
