package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when sales metrics are built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// Attribute keys of sales metrics
var (
	AttrOutcome   = attribute.Key("outcome")
	AttrStep      = attribute.Key("step")
	AttrErrorCode = attribute.Key("error_code")
)

// IssuanceBuckets are histogram boundaries for invoice issuance time in seconds
var IssuanceBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// SalesMetrics counts invoices issued and voided and times the issuance
// transaction. Amounts are recorded in whole pesos.
type SalesMetrics struct {
	issued        *Counter
	netAmount     *Counter
	voided        *Counter
	failures      *Counter
	issueDuration *Histogram
}

// NewSalesMetrics registers the sales instruments on meter
func NewSalesMetrics(meter metric.Meter) (*SalesMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	sm := &SalesMetrics{}
	var err error
	if sm.issued, err = NewCounter(meter, "supermercado_invoices_issued_total",
		"Invoices issued", "{invoices}"); err != nil {
		return nil, err
	}
	if sm.netAmount, err = NewCounter(meter, "supermercado_invoice_net_amount_total",
		"Net amount invoiced, rounded to whole pesos", "{pesos}"); err != nil {
		return nil, err
	}
	if sm.voided, err = NewCounter(meter, "supermercado_invoices_voided_total",
		"Invoices voided", "{invoices}"); err != nil {
		return nil, err
	}
	if sm.failures, err = NewCounter(meter, "supermercado_invoice_issuance_failures_total",
		"Issuance attempts rolled back, by failing step", "{attempts}"); err != nil {
		return nil, err
	}
	if sm.issueDuration, err = NewHistogram(meter, "supermercado_invoice_issuance_duration_seconds",
		"Time spent in the issuance transaction", "s", IssuanceBuckets...); err != nil {
		return nil, err
	}
	return sm, nil
}

// InvoiceIssued records a committed invoice
func (sm *SalesMetrics) InvoiceIssued(ctx context.Context, netTotal decimal.Decimal, elapsed time.Duration) {
	sm.issued.Inc(ctx)
	sm.netAmount.Add(ctx, netTotal.Round(0).IntPart())
	sm.issueDuration.RecordDuration(ctx, elapsed, AttrOutcome.String("issued"))
}

// IssuanceFailed records a rolled back issuance
func (sm *SalesMetrics) IssuanceFailed(ctx context.Context, step, code string, elapsed time.Duration) {
	sm.failures.Inc(ctx, AttrStep.String(step), AttrErrorCode.String(code))
	sm.issueDuration.RecordDuration(ctx, elapsed, AttrOutcome.String("failed"))
}

// InvoiceVoided records a void
func (sm *SalesMetrics) InvoiceVoided(ctx context.Context) {
	sm.voided.Inc(ctx)
}
