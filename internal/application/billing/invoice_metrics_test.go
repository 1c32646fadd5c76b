package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appbilling "github.com/supermercado/backend/internal/application/billing"
	"github.com/supermercado/backend/internal/domain/shared"
	"github.com/supermercado/backend/internal/infrastructure/persistence"
)

type recordingMetrics struct {
	mu       sync.Mutex
	issued   []decimal.Decimal
	failures []string
	voided   int
}

func (m *recordingMetrics) InvoiceIssued(_ context.Context, netTotal decimal.Decimal, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued = append(m.issued, netTotal)
}

func (m *recordingMetrics) IssuanceFailed(_ context.Context, step, code string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, step+":"+code)
}

func (m *recordingMetrics) InvoiceVoided(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voided++
}

func TestInvoiceService_Metrics(t *testing.T) {
	h := newHarness(t)
	metrics := &recordingMetrics{}
	svc := appbilling.NewInvoiceService(appbilling.InvoiceServiceConfig{
		TxScope:           persistence.NewGormTransactionScope(h.db),
		Reader:            persistence.NewGormInvoiceReader(h.db),
		ProductRepo:       persistence.NewGormProductRepository(h.db),
		TaxRateRepo:       persistence.NewGormTaxRateRepository(h.db),
		ThirdPartyRepo:    persistence.NewGormThirdPartyRepository(h.db),
		PaymentMethodRepo: persistence.NewGormPaymentMethodRepository(h.db),
		SalesDocumentCode: "FV",
		Clock:             func() time.Time { return issueDay },
		Metrics:           metrics,
	})
	ctx := context.Background()

	issued, err := svc.Create(ctx, h.f.Cashier.ID, h.riceSale())
	require.NoError(t, err)

	tooMuch := h.riceSale()
	tooMuch.Lines = []appbilling.InvoiceLineRequest{line(h.f.Milk, "6")}
	_, err = svc.Create(ctx, h.f.Cashier.ID, tooMuch)
	assertCode(t, err, shared.CodeInsufficientStock)

	_, err = svc.Void(ctx, issued.ID, h.f.Admin.ID, "error de digitacion")
	require.NoError(t, err)

	require.Len(t, metrics.issued, 1)
	assert.True(t, metrics.issued[0].Equal(decimal.NewFromInt(11900)))
	assert.Equal(t, []string{"validate_stock:" + shared.CodeInsufficientStock}, metrics.failures)
	assert.Equal(t, 1, metrics.voided)
}
