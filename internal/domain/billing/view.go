package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceView is an invoice joined with every name needed for display
type InvoiceView struct {
	ID                   uuid.UUID            `json:"id"`
	MovementID           uuid.UUID            `json:"movementId"`
	DocumentNumber       string               `json:"numeroDocumento"`
	IssuedAt             time.Time            `json:"fecha"`
	Status               InvoiceStatus        `json:"estado"`
	ThirdPartyID         uuid.UUID            `json:"terceroId"`
	ThirdPartyName       string               `json:"terceroNombre"`
	ThirdPartyIdentifier string               `json:"terceroIdentificacion"`
	UserID               uuid.UUID            `json:"usuarioId"`
	UserName             string               `json:"usuarioNombre"`
	Notes                string               `json:"observaciones"`
	GrossTotal           decimal.Decimal      `json:"subtotal"`
	DiscountTotal        decimal.Decimal      `json:"totalDescuentos"`
	TaxTotal             decimal.Decimal      `json:"totalImpuestos"`
	NetTotal             decimal.Decimal      `json:"total"`
	PaidTotal            decimal.Decimal      `json:"totalPagado"`
	VoidedAt             *time.Time           `json:"fechaAnulacion,omitempty"`
	VoidReason           string               `json:"motivoAnulacion,omitempty"`
	Lines                []InvoiceLineView    `json:"detalles"`
	Payments             []InvoicePaymentView `json:"pagos"`
}

// InvoiceLineView is a line with product and tax data
type InvoiceLineView struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"productoId"`
	ProductCode        string          `json:"productoCodigo"`
	ProductName        string          `json:"productoNombre"`
	Quantity           decimal.Decimal `json:"cantidad"`
	UnitPrice          decimal.Decimal `json:"precioUnitario"`
	DiscountPercentage decimal.Decimal `json:"descuentoPorcentaje"`
	DiscountValue      decimal.Decimal `json:"descuentoValor"`
	TaxPercentage      decimal.Decimal `json:"impuestoPorcentaje"`
	TaxAmount          decimal.Decimal `json:"impuestoValor"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Total              decimal.Decimal `json:"total"`
}

// InvoicePaymentView is a payment with its method name
type InvoicePaymentView struct {
	ID                uuid.UUID       `json:"id"`
	PaymentMethodID   uuid.UUID       `json:"metodoPagoId"`
	PaymentMethodName string          `json:"metodoPagoNombre"`
	Amount            decimal.Decimal `json:"monto"`
	Reference         string          `json:"referenciaPago,omitempty"`
}

// InvoiceFilter narrows invoice searches. Zero values are ignored and a zero
// PageSize returns every match. To is exclusive.
type InvoiceFilter struct {
	From           *time.Time
	To             *time.Time
	ThirdPartyID   *uuid.UUID
	UserID         *uuid.UUID
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	DocumentNumber string
	Status         InvoiceStatus
	Page           int
	PageSize       int
}

// PaymentBreakdown is the sales total of one payment method
type PaymentBreakdown struct {
	PaymentMethodID   uuid.UUID       `json:"metodoPagoId"`
	PaymentMethodName string          `json:"metodoPago"`
	Count             int             `json:"cantidad"`
	Amount            decimal.Decimal `json:"monto"`
}

// DailySummary aggregates the invoices of one day
type DailySummary struct {
	Date          string             `json:"fecha"`
	InvoiceCount  int                `json:"cantidadFacturas"`
	VoidedCount   int                `json:"cantidadAnuladas"`
	GrossTotal    decimal.Decimal    `json:"subtotal"`
	DiscountTotal decimal.Decimal    `json:"totalDescuentos"`
	TaxTotal      decimal.Decimal    `json:"totalImpuestos"`
	NetTotal      decimal.Decimal    `json:"totalVentas"`
	ByPayment     []PaymentBreakdown `json:"porMetodoPago"`
}

// SalesStatistics is the dashboard of the billing screen
type SalesStatistics struct {
	TodaySales       decimal.Decimal `json:"ventasHoy"`
	TodayInvoices    int             `json:"facturasHoy"`
	MonthSales       decimal.Decimal `json:"ventasMes"`
	MonthInvoices    int             `json:"facturasMes"`
	AverageTicket    decimal.Decimal `json:"ticketPromedio"`
	LowStockProducts int64           `json:"productosStockBajo"`
	ActiveCustomers  int64           `json:"clientesActivos"`
}

// Summarize builds the summary of a set of invoices. Voided invoices are only
// counted; their money is left out of every total.
func Summarize(date string, invoices []InvoiceView) DailySummary {
	s := DailySummary{
		Date:          date,
		GrossTotal:    decimal.Zero,
		DiscountTotal: decimal.Zero,
		TaxTotal:      decimal.Zero,
		NetTotal:      decimal.Zero,
		ByPayment:     []PaymentBreakdown{},
	}
	index := make(map[uuid.UUID]int)
	for _, inv := range invoices {
		if inv.Status == InvoiceStatusVoided {
			s.VoidedCount++
			continue
		}
		s.InvoiceCount++
		s.GrossTotal = s.GrossTotal.Add(inv.GrossTotal)
		s.DiscountTotal = s.DiscountTotal.Add(inv.DiscountTotal)
		s.TaxTotal = s.TaxTotal.Add(inv.TaxTotal)
		s.NetTotal = s.NetTotal.Add(inv.NetTotal)
		for _, p := range inv.Payments {
			i, ok := index[p.PaymentMethodID]
			if !ok {
				s.ByPayment = append(s.ByPayment, PaymentBreakdown{
					PaymentMethodID:   p.PaymentMethodID,
					PaymentMethodName: p.PaymentMethodName,
					Amount:            decimal.Zero,
				})
				i = len(s.ByPayment) - 1
				index[p.PaymentMethodID] = i
			}
			s.ByPayment[i].Count++
			s.ByPayment[i].Amount = s.ByPayment[i].Amount.Add(p.Amount)
		}
	}
	return s
}
