package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appbilling "github.com/supermercado/backend/internal/application/billing"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/shared"
)

type invoiceFixture struct {
	service  *MockInvoiceService
	renderer *MockRenderer
	actor    uuid.UUID
	router   *gin.Engine
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	f := &invoiceFixture{
		service:  new(MockInvoiceService),
		renderer: new(MockRenderer),
		actor:    uuid.New(),
	}
	h := NewInvoiceHandler(f.service, f.renderer)

	f.router = newEngine(authenticated(f.actor, "Cajero"))
	g := f.router.Group("/api/v1/Facturacion")
	g.POST("/crear-factura", h.Create)
	g.POST("/buscar", h.Search)
	g.GET("/resumen-ventas/:fecha", h.DailySummary)
	g.GET("/hoy", h.Today)
	g.GET("/metodos-pago", h.PaymentMethods)
	g.GET("/productos-disponibles", h.AvailableProducts)
	g.GET("/:id", h.GetByID)
	g.GET("/:id/pdf", h.PDF)
	g.PUT("/:id/anular", h.Void)

	t.Cleanup(func() {
		f.service.AssertExpectations(t)
		f.renderer.AssertExpectations(t)
	})
	return f
}

func sampleView() *billing.InvoiceView {
	return &billing.InvoiceView{
		ID:             uuid.New(),
		DocumentNumber: "FV-1001",
		Status:         billing.InvoiceStatusIssued,
		NetTotal:       decimal.RequireFromString("11900"),
	}
}

func invoiceBody(productID, methodID uuid.UUID) map[string]any {
	return map[string]any{
		"terceroId": uuid.New(),
		"detalles": []map[string]any{
			{"productoId": productID, "cantidad": 2},
		},
		"pagos": []map[string]any{
			{"metodoPagoId": methodID, "monto": 11900},
		},
	}
}

func TestInvoiceHandler_Create(t *testing.T) {
	f := newInvoiceFixture(t)
	productID, methodID := uuid.New(), uuid.New()
	view := sampleView()

	f.service.On("Create", mock.Anything, f.actor, mock.MatchedBy(func(req appbilling.CreateInvoiceRequest) bool {
		return len(req.Lines) == 1 &&
			req.Lines[0].ProductID == productID &&
			req.Lines[0].Quantity.Equal(decimal.NewFromInt(2)) &&
			req.Payments[0].Amount.Equal(decimal.NewFromInt(11900))
	})).Return(view, nil)

	rec := doJSON(f.router, http.MethodPost, "/api/v1/Facturacion/crear-factura", invoiceBody(productID, methodID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "FV-1001", resp.Data.(map[string]any)["numeroDocumento"])
}

func TestInvoiceHandler_CreateFailures(t *testing.T) {
	t.Run("missing product is a bad request", func(t *testing.T) {
		f := newInvoiceFixture(t)
		f.service.On("Create", mock.Anything, f.actor, mock.Anything).
			Return(nil, shared.NewNotFoundError("Product", "x"))

		rec := doJSON(f.router, http.MethodPost, "/api/v1/Facturacion/crear-factura", invoiceBody(uuid.New(), uuid.New()))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, shared.CodeNotFound, decodeResponse(t, rec).Error.Code)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		f := newInvoiceFixture(t)
		f.service.On("Create", mock.Anything, f.actor, mock.Anything).
			Return(nil, shared.NewDomainError(shared.CodeInsufficientStock, "Insufficient stock for ARROZ-500"))

		rec := doJSON(f.router, http.MethodPost, "/api/v1/Facturacion/crear-factura", invoiceBody(uuid.New(), uuid.New()))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeResponse(t, rec).Error.Message, "ARROZ-500")
	})

	t.Run("no lines fails validation before the service", func(t *testing.T) {
		f := newInvoiceFixture(t)
		body := invoiceBody(uuid.New(), uuid.New())
		body["detalles"] = []map[string]any{}

		rec := doJSON(f.router, http.MethodPost, "/api/v1/Facturacion/crear-factura", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, shared.CodeValidation, resp.Error.Code)
		assert.Equal(t, "detalles", resp.Error.Details[0].Field)
		f.service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h := NewInvoiceHandler(new(MockInvoiceService), nil)
		r := newEngine()
		r.POST("/crear-factura", h.Create)
		rec := doJSON(r, http.MethodPost, "/crear-factura", invoiceBody(uuid.New(), uuid.New()))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestInvoiceHandler_GetByID(t *testing.T) {
	f := newInvoiceFixture(t)
	view := sampleView()
	f.service.On("GetByID", mock.Anything, view.ID).Return(view, nil)
	missing := uuid.New()
	f.service.On("GetByID", mock.Anything, missing).Return(nil, shared.NewNotFoundError("Invoice", missing))

	assert.Equal(t, http.StatusOK, doJSON(f.router, http.MethodGet, "/api/v1/Facturacion/"+view.ID.String(), nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(f.router, http.MethodGet, "/api/v1/Facturacion/"+missing.String(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(f.router, http.MethodGet, "/api/v1/Facturacion/not-a-uuid", nil).Code)
}

func TestInvoiceHandler_PDF(t *testing.T) {
	f := newInvoiceFixture(t)
	view := sampleView()
	f.service.On("GetByID", mock.Anything, view.ID).Return(view, nil)
	f.renderer.On("RenderInvoice", mock.Anything, view).Return([]byte("%PDF-1.3 test"), nil)

	rec := doJSON(f.router, http.MethodGet, "/api/v1/Facturacion/"+view.ID.String()+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "FV-1001.pdf")
	assert.Equal(t, "%PDF-1.3 test", rec.Body.String())

	t.Run("render failure", func(t *testing.T) {
		f := newInvoiceFixture(t)
		f.service.On("GetByID", mock.Anything, view.ID).Return(view, nil)
		f.renderer.On("RenderInvoice", mock.Anything, view).Return(nil, errors.New("font missing"))
		rec := doJSON(f.router, http.MethodGet, "/api/v1/Facturacion/"+view.ID.String()+"/pdf", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestInvoiceHandler_Void(t *testing.T) {
	f := newInvoiceFixture(t)
	view := sampleView()
	view.Status = billing.InvoiceStatusVoided
	f.service.On("Void", mock.Anything, view.ID, f.actor, "cliente devolvio todo").Return(view, nil)

	rec := doJSON(f.router, http.MethodPut, "/api/v1/Facturacion/"+view.ID.String()+"/anular", `"cliente devolvio todo"`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, string(billing.InvoiceStatusVoided), decodeResponse(t, rec).Data.(map[string]any)["estado"])

	t.Run("body must be a JSON string", func(t *testing.T) {
		rec := doJSON(f.router, http.MethodPut, "/api/v1/Facturacion/"+view.ID.String()+"/anular", `{"motivo":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too old", func(t *testing.T) {
		old := uuid.New()
		f.service.On("Void", mock.Anything, old, f.actor, "tarde").
			Return(nil, shared.NewDomainError(shared.CodeBusinessRule, "invoice is more than 30 days old and cannot be voided"))
		rec := doJSON(f.router, http.MethodPut, "/api/v1/Facturacion/"+old.String()+"/anular", `"tarde"`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invoice is more than 30 days old and cannot be voided", decodeResponse(t, rec).Error.Message)
	})
}

func TestInvoiceHandler_Search(t *testing.T) {
	f := newInvoiceFixture(t)
	f.service.On("Search", mock.Anything, mock.MatchedBy(func(req appbilling.SearchInvoicesRequest) bool {
		return req.From == "2026-03-01" && req.Status == "VOIDED" && req.PageSize == 10
	})).Return(&appbilling.InvoiceListResponse{
		Items:    []billing.InvoiceView{*sampleView()},
		Total:    31,
		Page:     2,
		PageSize: 10,
	}, nil)

	rec := doJSON(f.router, http.MethodPost, "/api/v1/Facturacion/buscar", map[string]any{
		"fechaInicio": "2026-03-01",
		"estado":      "VOIDED",
		"page":        2,
		"pageSize":    10,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(31), resp.Meta.Total)
	assert.Equal(t, 4, resp.Meta.TotalPages)
}

func TestInvoiceHandler_ReadViews(t *testing.T) {
	f := newInvoiceFixture(t)
	f.service.On("DailySummary", mock.Anything, "2026-03-02").Return(&billing.DailySummary{Date: "2026-03-02", InvoiceCount: 3}, nil)
	f.service.On("DailySummary", mock.Anything, "02-03-2026").Return(nil, shared.NewValidationError("bad date"))
	f.service.On("Today", mock.Anything).Return([]billing.InvoiceView{*sampleView()}, nil)
	f.service.On("PaymentMethods", mock.Anything).Return([]appbilling.PaymentMethodOption{{Code: "EFECTIVO", Name: "Efectivo"}}, nil)
	f.service.On("AvailableProducts", mock.Anything, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Search == "arroz" && filter.Page == 1 && filter.PageSize == 20
	})).Return([]appbilling.AvailableProductResponse{}, nil)

	assert.Equal(t, http.StatusOK, doJSON(f.router, http.MethodGet, "/api/v1/Facturacion/resumen-ventas/2026-03-02", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(f.router, http.MethodGet, "/api/v1/Facturacion/resumen-ventas/02-03-2026", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(f.router, http.MethodGet, "/api/v1/Facturacion/hoy", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(f.router, http.MethodGet, "/api/v1/Facturacion/metodos-pago", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(f.router, http.MethodGet, "/api/v1/Facturacion/productos-disponibles?search=arroz", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(f.router, http.MethodGet, "/api/v1/Facturacion/productos-disponibles?page_size=500", nil).Code)
}
