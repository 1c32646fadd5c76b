package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotoconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Error codes for rendering failures
const (
	ErrCodeRenderFailed = "RENDER_FAILED"
	ErrCodeInvalidInput = "INVALID_INPUT"
)

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

// InvoiceRenderer turns an assembled invoice into a PDF document
type InvoiceRenderer struct {
	company  config.CompanyConfig
	location *time.Location
	format   *Formatter
	logger   *zap.Logger
}

// NewInvoiceRenderer creates a renderer that prints company on the header and
// dates in location.
func NewInvoiceRenderer(company config.CompanyConfig, location *time.Location, logger *zap.Logger) *InvoiceRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &InvoiceRenderer{
		company:  company,
		location: location,
		format:   NewFormatter(company.Locale),
		logger:   logger,
	}
}

var (
	small     = props.Text{Size: 8}
	smallBold = props.Text{Size: 8, Style: fontstyle.Bold}
	right     = props.Text{Size: 8, Align: align.Right}
	rightBold = props.Text{Size: 8, Align: align.Right, Style: fontstyle.Bold}
)

// RenderInvoice returns the PDF bytes of view
func (r *InvoiceRenderer) RenderInvoice(ctx context.Context, view *billing.InvoiceView) ([]byte, error) {
	if view == nil {
		return nil, NewRenderError(ErrCodeInvalidInput, "invoice is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "rendering cancelled", err)
	}
	start := time.Now()

	cfg := marotoconfig.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()
	m := maroto.New(cfg)

	m.AddRows(r.header(view)...)
	m.AddRows(r.lines(view)...)
	m.AddRows(r.totals(view)...)
	m.AddRows(r.payments(view)...)
	if view.Status == billing.InvoiceStatusVoided {
		m.AddRows(r.voidNotice(view)...)
	}
	if view.Notes != "" {
		m.AddRow(12, text.NewCol(12, "Observaciones: "+view.Notes, props.Text{Size: 8, Top: 4}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to generate invoice PDF", err)
	}
	data := doc.GetBytes()

	r.logger.Debug("Invoice PDF rendered",
		zap.String("document_number", view.DocumentNumber),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}

func (r *InvoiceRenderer) header(view *billing.InvoiceView) []core.Row {
	issued := view.IssuedAt.In(r.location).Format("2006-01-02 15:04")
	return []core.Row{
		row.New(10).Add(
			text.NewCol(8, r.company.Name, props.Text{Size: 14, Style: fontstyle.Bold}),
			text.NewCol(4, "FACTURA DE VENTA", props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
		),
		row.New(14).Add(
			col.New(8).Add(
				text.New("NIT "+r.company.TaxID, small),
				text.New(r.company.Address, props.Text{Size: 8, Top: 4}),
				text.New(r.company.Phone, props.Text{Size: 8, Top: 8}),
			),
			col.New(4).Add(
				text.New("No. "+view.DocumentNumber, rightBold),
				text.New(issued, props.Text{Size: 8, Top: 4, Align: align.Right}),
			),
		),
		row.New(12).Add(
			col.New(8).Add(
				text.New("Cliente: "+r.format.Title(view.ThirdPartyName), smallBold),
				text.New("Identificación: "+view.ThirdPartyIdentifier, props.Text{Size: 8, Top: 4}),
			),
			text.NewCol(4, "Cajero: "+view.UserName, props.Text{Size: 8, Align: align.Right}),
		),
		row.New(2).Add(line.NewCol(12)),
	}
}

func (r *InvoiceRenderer) lines(view *billing.InvoiceView) []core.Row {
	rows := []core.Row{
		row.New(7).Add(
			text.NewCol(2, "Código", smallBold),
			text.NewCol(4, "Producto", smallBold),
			text.NewCol(1, "Cant.", rightBold),
			text.NewCol(2, "Precio", rightBold),
			text.NewCol(1, "IVA", rightBold),
			text.NewCol(2, "Total", rightBold),
		),
	}
	for _, l := range view.Lines {
		rows = append(rows, row.New(6).Add(
			text.NewCol(2, l.ProductCode, small),
			text.NewCol(4, l.ProductName, small),
			text.NewCol(1, r.format.Quantity(l.Quantity), right),
			text.NewCol(2, r.format.Money(l.UnitPrice), right),
			text.NewCol(1, r.format.Percent(l.TaxPercentage), right),
			text.NewCol(2, r.format.Money(l.Total), right),
		))
		if l.DiscountValue.IsPositive() {
			rows = append(rows, row.New(5).Add(
				col.New(2),
				text.NewCol(10, fmt.Sprintf("Descuento %s", r.format.Money(l.DiscountValue)), props.Text{Size: 7, Style: fontstyle.Italic}),
			))
		}
	}
	return append(rows, row.New(2).Add(line.NewCol(12)))
}

func (r *InvoiceRenderer) totals(view *billing.InvoiceView) []core.Row {
	entry := func(label, value string, style props.Text) core.Row {
		return row.New(6).Add(
			col.New(7),
			text.NewCol(3, label, style),
			text.NewCol(2, value, props.Text{Size: style.Size, Style: style.Style, Align: align.Right}),
		)
	}
	return []core.Row{
		entry("Subtotal", r.format.Money(view.GrossTotal), small),
		entry("Descuentos", r.format.Money(view.DiscountTotal), small),
		entry("Impuestos", r.format.Money(view.TaxTotal), small),
		entry("Total", r.format.Money(view.NetTotal), props.Text{Size: 10, Style: fontstyle.Bold}),
	}
}

func (r *InvoiceRenderer) payments(view *billing.InvoiceView) []core.Row {
	rows := []core.Row{row.New(8).Add(text.NewCol(12, "Pagos", props.Text{Size: 9, Style: fontstyle.Bold, Top: 2}))}
	for _, p := range view.Payments {
		label := p.PaymentMethodName
		if p.Reference != "" {
			label += " (" + p.Reference + ")"
		}
		rows = append(rows, row.New(5).Add(
			text.NewCol(10, label, small),
			text.NewCol(2, r.format.Money(p.Amount), right),
		))
	}
	return rows
}

func (r *InvoiceRenderer) voidNotice(view *billing.InvoiceView) []core.Row {
	notice := "ANULADA"
	if view.VoidedAt != nil {
		notice += " " + view.VoidedAt.In(r.location).Format("2006-01-02 15:04")
	}
	return []core.Row{
		row.New(10).Add(text.NewCol(12, notice, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center, Top: 3})),
		row.New(6).Add(text.NewCol(12, "Motivo: "+view.VoidReason, props.Text{Size: 8, Align: align.Center})),
	}
}
