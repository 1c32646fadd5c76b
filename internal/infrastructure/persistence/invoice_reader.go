package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/partner"
	"github.com/supermercado/backend/internal/domain/shared"
	"gorm.io/gorm"
)

const invoiceViewColumns = `i.id, i.movement_id, m.document_number, m.issued_at, i.status,
	m.third_party_id, COALESCE(t.first_name, '') AS first_name, COALESCE(t.last_name, '') AS last_name,
	COALESCE(t.business_name, '') AS business_name, COALESCE(t.identification_number, '') AS identification_number,
	COALESCE(it.code, '') AS identification_code, m.user_id, COALESCE(u.name, '') AS user_name,
	COALESCE(m.notes, '') AS notes, i.gross_total, i.discount_total, i.tax_total, i.net_total,
	i.voided_at, COALESCE(i.void_reason, '') AS void_reason, ` + paidTotalExpr + ` AS paid_total`

const paidTotalExpr = `COALESCE((SELECT SUM(p.amount) FROM invoice_payments p WHERE p.invoice_id = i.id), 0)`

// invoiceRow is one invoice header joined with its movement and parties
type invoiceRow struct {
	ID                   uuid.UUID
	MovementID           uuid.UUID
	DocumentNumber       string
	IssuedAt             time.Time
	Status               string
	ThirdPartyID         uuid.UUID
	FirstName            string
	LastName             string
	BusinessName         string
	IdentificationNumber string
	IdentificationCode   string
	UserID               uuid.UUID
	UserName             string
	Notes                string
	GrossTotal           decimal.Decimal
	DiscountTotal        decimal.Decimal
	TaxTotal             decimal.Decimal
	NetTotal             decimal.Decimal
	VoidedAt             *time.Time
	VoidReason           string
	PaidTotal            decimal.Decimal
}

type invoiceLineRow struct {
	InvoiceID uuid.UUID
	billing.InvoiceLineView
}

type invoicePaymentRow struct {
	InvoiceID uuid.UUID
	billing.InvoicePaymentView
}

// GormInvoiceReader assembles invoice views with plain joins
type GormInvoiceReader struct {
	db *gorm.DB
}

// NewGormInvoiceReader creates a new GormInvoiceReader
func NewGormInvoiceReader(db *gorm.DB) *GormInvoiceReader {
	return &GormInvoiceReader{db: db}
}

func (r *GormInvoiceReader) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("invoices AS i").
		Joins("JOIN movements m ON m.id = i.movement_id").
		Joins("LEFT JOIN third_parties t ON t.id = m.third_party_id").
		Joins("LEFT JOIN identification_types it ON it.id = t.identification_type_id").
		Joins("LEFT JOIN users u ON u.id = m.user_id")
}

// FindView assembles one invoice
func (r *GormInvoiceReader) FindView(ctx context.Context, id uuid.UUID) (*billing.InvoiceView, error) {
	var rows []invoiceRow
	if err := r.baseQuery(ctx).
		Select(invoiceViewColumns).
		Where("i.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	views, err := r.assemble(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Search lists invoice views matching the filter, newest first
func (r *GormInvoiceReader) Search(ctx context.Context, filter billing.InvoiceFilter) ([]billing.InvoiceView, int64, error) {
	var total int64
	if err := r.applyInvoiceFilter(r.baseQuery(ctx), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []billing.InvoiceView{}, 0, nil
	}

	query := r.applyInvoiceFilter(r.baseQuery(ctx), filter).
		Select(invoiceViewColumns).
		Order("m.issued_at DESC, m.document_number DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []invoiceRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	views, err := r.assemble(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// FindPendingPayment lists issued invoices whose payments fall short of the
// net total by more than the money tolerance
func (r *GormInvoiceReader) FindPendingPayment(ctx context.Context, filter shared.Filter) ([]billing.InvoiceView, error) {
	query := r.baseQuery(ctx).
		Select(invoiceViewColumns).
		Where("i.status = ?", billing.InvoiceStatusIssued).
		Where("i.net_total - "+paidTotalExpr+" > ?", billing.Tolerance.InexactFloat64()).
		Order("m.issued_at ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []invoiceRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return r.assemble(ctx, rows)
}

// SalesTotals counts issued invoices in [from, to) and sums their net totals
func (r *GormInvoiceReader) SalesTotals(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error) {
	var result struct {
		Count int64
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Table("invoices AS i").
		Joins("JOIN movements m ON m.id = i.movement_id").
		Select("COUNT(*) AS count, COALESCE(SUM(i.net_total), 0) AS total").
		Where("i.status = ?", billing.InvoiceStatusIssued).
		Where("m.issued_at >= ? AND m.issued_at < ?", from.UTC(), to.UTC()).
		Scan(&result).Error; err != nil {
		return 0, decimal.Zero, err
	}
	return result.Count, result.Total, nil
}

func (r *GormInvoiceReader) applyInvoiceFilter(query *gorm.DB, filter billing.InvoiceFilter) *gorm.DB {
	if filter.From != nil {
		query = query.Where("m.issued_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("m.issued_at < ?", filter.To.UTC())
	}
	if filter.ThirdPartyID != nil {
		query = query.Where("m.third_party_id = ?", *filter.ThirdPartyID)
	}
	if filter.UserID != nil {
		query = query.Where("m.user_id = ?", *filter.UserID)
	}
	if filter.MinAmount != nil {
		query = query.Where("i.net_total >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("i.net_total <= ?", *filter.MaxAmount)
	}
	if number := strings.TrimSpace(filter.DocumentNumber); number != "" {
		query = query.Where("LOWER(m.document_number) LIKE ?", "%"+strings.ToLower(number)+"%")
	}
	if filter.Status != "" {
		query = query.Where("i.status = ?", filter.Status)
	}
	return query
}

// assemble loads lines and payments of the given headers in two queries
func (r *GormInvoiceReader) assemble(ctx context.Context, rows []invoiceRow) ([]billing.InvoiceView, error) {
	views := make([]billing.InvoiceView, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, len(rows))
	index := make(map[uuid.UUID]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
		index[row.ID] = i
		views[i] = row.toView()
	}

	var lines []invoiceLineRow
	if err := r.db.WithContext(ctx).
		Table("invoice_lines AS l").
		Select(`l.invoice_id, l.id, l.product_id, COALESCE(p.code, '') AS product_code,
			COALESCE(p.name, '') AS product_name, l.quantity, l.unit_price, l.discount_percentage,
			l.discount_value, l.tax_percentage, l.tax_amount, l.subtotal, l.total`).
		Joins("LEFT JOIN products p ON p.id = l.product_id").
		Where("l.invoice_id IN ?", ids).
		Order("l.created_at ASC").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	for _, line := range lines {
		i := index[line.InvoiceID]
		views[i].Lines = append(views[i].Lines, line.InvoiceLineView)
	}

	var payments []invoicePaymentRow
	if err := r.db.WithContext(ctx).
		Table("invoice_payments AS p").
		Select(`p.invoice_id, p.id, p.payment_method_id, COALESCE(pm.name, '') AS payment_method_name,
			p.amount, COALESCE(p.reference, '') AS reference`).
		Joins("LEFT JOIN payment_methods pm ON pm.id = p.payment_method_id").
		Where("p.invoice_id IN ?", ids).
		Order("p.created_at ASC").
		Scan(&payments).Error; err != nil {
		return nil, err
	}
	for _, payment := range payments {
		i := index[payment.InvoiceID]
		views[i].Payments = append(views[i].Payments, payment.InvoicePaymentView)
	}

	return views, nil
}

func (row invoiceRow) toView() billing.InvoiceView {
	party := partner.ThirdParty{
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		BusinessName: row.BusinessName,
	}
	identifier := row.IdentificationNumber
	if row.IdentificationCode != "" {
		identifier = row.IdentificationCode + " " + identifier
	}
	return billing.InvoiceView{
		ID:                   row.ID,
		MovementID:           row.MovementID,
		DocumentNumber:       row.DocumentNumber,
		IssuedAt:             row.IssuedAt,
		Status:               billing.InvoiceStatus(row.Status),
		ThirdPartyID:         row.ThirdPartyID,
		ThirdPartyName:       party.DisplayName(),
		ThirdPartyIdentifier: identifier,
		UserID:               row.UserID,
		UserName:             row.UserName,
		Notes:                row.Notes,
		GrossTotal:           row.GrossTotal,
		DiscountTotal:        row.DiscountTotal,
		TaxTotal:             row.TaxTotal,
		NetTotal:             row.NetTotal,
		PaidTotal:            row.PaidTotal,
		VoidedAt:             row.VoidedAt,
		VoidReason:           row.VoidReason,
		Lines:                []billing.InvoiceLineView{},
		Payments:             []billing.InvoicePaymentView{},
	}
}

var _ billing.InvoiceReader = (*GormInvoiceReader)(nil)
