package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/supermercado/backend/internal/application/billing"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/shared"
	"github.com/supermercado/backend/internal/interfaces/http/middleware"
)

// InvoiceService is what InvoiceHandler needs from the billing application
type InvoiceService interface {
	Create(ctx context.Context, actorID uuid.UUID, req appbilling.CreateInvoiceRequest) (*billing.InvoiceView, error)
	Void(ctx context.Context, id, actorID uuid.UUID, reason string) (*billing.InvoiceView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*billing.InvoiceView, error)
	Search(ctx context.Context, req appbilling.SearchInvoicesRequest) (*appbilling.InvoiceListResponse, error)
	PendingPayment(ctx context.Context, filter shared.Filter) ([]billing.InvoiceView, error)
	Today(ctx context.Context) ([]billing.InvoiceView, error)
	DailySummary(ctx context.Context, date string) (*billing.DailySummary, error)
	Statistics(ctx context.Context) (*billing.SalesStatistics, error)
	AvailableProducts(ctx context.Context, filter shared.Filter) ([]appbilling.AvailableProductResponse, error)
	PaymentMethods(ctx context.Context) ([]appbilling.PaymentMethodOption, error)
	Customers(ctx context.Context, filter shared.Filter) ([]appbilling.CustomerOption, error)
}

// InvoiceRenderer renders an assembled invoice as PDF
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, view *billing.InvoiceView) ([]byte, error)
}

// InvoiceHandler handles invoicing HTTP requests
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceService
	renderer InvoiceRenderer
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices InvoiceService, renderer InvoiceRenderer) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, renderer: renderer}
}

// Create godoc
//
//	@Summary		Issue an invoice
//	@Description	Validates stock, prices the lines, checks payments, takes the next
//	@Description	document number and stores everything in one transaction
//	@Tags			facturacion
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header		string							false	"Retry key"
//	@Param			request			body		billing.CreateInvoiceRequest	true	"Invoice"
//	@Success		201				{object}	dto.Response{data=billing.InvoiceView}
//	@Failure		400				{object}	dto.Response{error=dto.ErrorInfo}
//	@Failure		409				{object}	dto.Response{error=dto.ErrorInfo}
//	@Security		BearerAuth
//	@Router			/Facturacion/crear-factura [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	actorID := middleware.GetJWTUserID(c)
	if actorID == uuid.Nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appbilling.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	view, err := h.invoices.Create(c.Request.Context(), actorID, req)
	if err != nil {
		// a missing product or customer is a bad request, not a missing invoice
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.CodeNotFound {
			h.Error(c, http.StatusBadRequest, domainErr.Code, domainErr.Message)
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// GetByID godoc
//
//	@Summary	Get an invoice
//	@Tags		facturacion
//	@Produce	json
//	@Param		id	path		string	true	"Invoice ID"	format(uuid)
//	@Success	200	{object}	dto.Response{data=billing.InvoiceView}
//	@Failure	404	{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/Facturacion/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	view, err := h.invoices.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// PDF godoc
//
//	@Summary	Printable invoice
//	@Tags		facturacion
//	@Produce	application/pdf
//	@Param		id	path	string	true	"Invoice ID"	format(uuid)
//	@Success	200	{file}	binary
//	@Failure	404	{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/Facturacion/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	view, err := h.invoices.GetByID(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	content, err := h.renderer.RenderInvoice(ctx, view)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+view.DocumentNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", content)
}

// Search godoc
//
//	@Summary	Search invoices
//	@Tags		facturacion
//	@Accept		json
//	@Produce	json
//	@Param		request	body		billing.SearchInvoicesRequest	true	"Filter"
//	@Success	200		{object}	dto.Response{data=[]billing.InvoiceView}
//	@Security	BearerAuth
//	@Router		/Facturacion/buscar [post]
func (h *InvoiceHandler) Search(c *gin.Context) {
	var req appbilling.SearchInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.invoices.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Void godoc
//
//	@Summary		Void an invoice
//	@Description	The body is the reason as a JSON string
//	@Tags			facturacion
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string	true	"Invoice ID"	format(uuid)
//	@Param			reason	body		string	true	"Reason"
//	@Success		200		{object}	dto.Response{data=billing.InvoiceView}
//	@Failure		400		{object}	dto.Response{error=dto.ErrorInfo}
//	@Failure		404		{object}	dto.Response{error=dto.ErrorInfo}
//	@Security		BearerAuth
//	@Router			/Facturacion/{id}/anular [put]
func (h *InvoiceHandler) Void(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	actorID := middleware.GetJWTUserID(c)
	if actorID == uuid.Nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var reason string
	if err := c.ShouldBindJSON(&reason); err != nil {
		h.BindError(c, err)
		return
	}

	view, err := h.invoices.Void(c.Request.Context(), id, actorID, reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// DailySummary returns the sales summary of :fecha (yyyy-MM-dd)
func (h *InvoiceHandler) DailySummary(c *gin.Context) {
	summary, err := h.invoices.DailySummary(c.Request.Context(), c.Param("fecha"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// PendingPayment lists invoices whose payments fall short of the total
func (h *InvoiceHandler) PendingPayment(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	views, err := h.invoices.PendingPayment(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// Today lists today's invoices
func (h *InvoiceHandler) Today(c *gin.Context) {
	views, err := h.invoices.Today(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// Statistics returns the dashboard figures
func (h *InvoiceHandler) Statistics(c *gin.Context) {
	stats, err := h.invoices.Statistics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// AvailableProducts lists active products with stock for the invoice form
func (h *InvoiceHandler) AvailableProducts(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	products, err := h.invoices.AvailableProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// PaymentMethods lists active payment methods
func (h *InvoiceHandler) PaymentMethods(c *gin.Context) {
	methods, err := h.invoices.PaymentMethods(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, methods)
}

// Customers lists active customers
func (h *InvoiceHandler) Customers(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	customers, err := h.invoices.Customers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}
