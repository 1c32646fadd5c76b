package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/billing"
	"github.com/supermercado/backend/internal/domain/catalog"
	"github.com/supermercado/backend/internal/domain/partner"
)

// ==================== Invoice DTOs ====================

// CreateInvoiceRequest is the body of POST /Facturacion/crear-factura
type CreateInvoiceRequest struct {
	ThirdPartyID uuid.UUID               `json:"terceroId" binding:"required"`
	UserID       *uuid.UUID              `json:"usuarioId"`
	Notes        string                  `json:"observaciones" binding:"max=1000"`
	Lines        []InvoiceLineRequest    `json:"detalles" binding:"required,min=1,dive"`
	Payments     []InvoicePaymentRequest `json:"pagos" binding:"required,min=1,dive"`
}

// InvoiceLineRequest is one product line of a new invoice.
// A nil UnitPrice takes the product's current price.
type InvoiceLineRequest struct {
	ProductID          uuid.UUID        `json:"productoId" binding:"required"`
	Quantity           decimal.Decimal  `json:"cantidad"`
	UnitPrice          *decimal.Decimal `json:"precioUnitario"`
	DiscountPercentage decimal.Decimal  `json:"descuentoPorcentaje"`
	DiscountValue      decimal.Decimal  `json:"descuentoValor"`
}

// InvoicePaymentRequest allocates part of the total to a payment method
type InvoicePaymentRequest struct {
	PaymentMethodID uuid.UUID       `json:"metodoPagoId" binding:"required"`
	Amount          decimal.Decimal `json:"monto"`
	Reference       string          `json:"referenciaPago" binding:"max=100"`
}

// SearchInvoicesRequest is the body of POST /Facturacion/buscar.
// Dates accept yyyy-MM-dd or RFC 3339; a date-only end covers the whole day.
type SearchInvoicesRequest struct {
	From           string           `json:"fechaInicio"`
	To             string           `json:"fechaFin"`
	ThirdPartyID   *uuid.UUID       `json:"terceroId"`
	UserID         *uuid.UUID       `json:"usuarioId"`
	MinAmount      *decimal.Decimal `json:"montoMinimo"`
	MaxAmount      *decimal.Decimal `json:"montoMaximo"`
	DocumentNumber string           `json:"numeroDocumento" binding:"max=30"`
	Status         string           `json:"estado"`
	Page           int              `json:"page" binding:"min=0"`
	PageSize       int              `json:"pageSize" binding:"min=0,max=100"`
}

// InvoiceListResponse is one page of invoice views
type InvoiceListResponse struct {
	Items    []billing.InvoiceView `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}

// AvailableProductResponse is a product that can be put on an invoice
type AvailableProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"codigo"`
	Barcode       string          `json:"codigoBarras"`
	Name          string          `json:"nombre"`
	UnitPrice     decimal.Decimal `json:"precioUnitario"`
	StockCurrent  decimal.Decimal `json:"stockActual"`
	TaxRateID     uuid.UUID       `json:"impuestoId"`
	TaxPercentage decimal.Decimal `json:"impuestoPorcentaje"`
}

// CustomerOption is a customer in the invoice form selector
type CustomerOption struct {
	ID                   uuid.UUID `json:"id"`
	IdentificationNumber string    `json:"identificacion"`
	Name                 string    `json:"nombre"`
	Email                string    `json:"email,omitempty"`
}

// PaymentMethodOption is an active payment method
type PaymentMethodOption struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"codigo"`
	Name string    `json:"nombre"`
}

// ==================== Master data DTOs ====================

// DocumentTypeRequest creates or updates a document type
type DocumentTypeRequest struct {
	Code   string `json:"codigo" binding:"required,min=1,max=10"`
	Name   string `json:"nombre" binding:"required,min=1,max=100"`
	Active *bool  `json:"activo"`
}

// DocumentTypeResponse is a document type
type DocumentTypeResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"codigo"`
	Name      string    `json:"nombre"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaymentMethodRequest creates or updates a payment method
type PaymentMethodRequest struct {
	Code   string `json:"codigo" binding:"required,min=1,max=20"`
	Name   string `json:"nombre" binding:"required,min=1,max=100"`
	Active *bool  `json:"activo"`
}

// PaymentMethodResponse is a payment method
type PaymentMethodResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"codigo"`
	Name      string    `json:"nombre"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConsecutiveRequest creates or updates a numbering counter.
// CurrentNumber defaults to RangeStart on creation.
type ConsecutiveRequest struct {
	DocumentTypeID uuid.UUID `json:"tipoDocumentoId" binding:"required"`
	Prefix         string    `json:"prefijo" binding:"required,min=1,max=10"`
	RangeStart     int64     `json:"rangoInicial" binding:"min=0"`
	RangeEnd       int64     `json:"rangoFinal" binding:"required,gtfield=RangeStart"`
	CurrentNumber  *int64    `json:"consecutivoActual"`
	Active         *bool     `json:"activo"`
}

// ConsecutiveResponse is a numbering counter
type ConsecutiveResponse struct {
	ID             uuid.UUID `json:"id"`
	DocumentTypeID uuid.UUID `json:"tipoDocumentoId"`
	Prefix         string    `json:"prefijo"`
	RangeStart     int64     `json:"rangoInicial"`
	RangeEnd       int64     `json:"rangoFinal"`
	CurrentNumber  int64     `json:"consecutivoActual"`
	Remaining      int64     `json:"disponibles"`
	Active         bool      `json:"activo"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ==================== Converters ====================

// ToDocumentTypeResponse converts a domain DocumentType to a response
func ToDocumentTypeResponse(d *billing.DocumentType) DocumentTypeResponse {
	return DocumentTypeResponse{
		ID:        d.ID,
		Code:      d.Code,
		Name:      d.Name,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ToPaymentMethodResponse converts a domain PaymentMethod to a response
func ToPaymentMethodResponse(p *billing.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToConsecutiveResponse converts a domain Consecutive to a response
func ToConsecutiveResponse(c *billing.Consecutive) ConsecutiveResponse {
	return ConsecutiveResponse{
		ID:             c.ID,
		DocumentTypeID: c.DocumentTypeID,
		Prefix:         c.Prefix,
		RangeStart:     c.RangeStart,
		RangeEnd:       c.RangeEnd,
		CurrentNumber:  c.CurrentNumber,
		Remaining:      c.Remaining(),
		Active:         c.Active,
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toAvailableProduct(p *catalog.Product, taxPercentage decimal.Decimal) AvailableProductResponse {
	return AvailableProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Barcode:       p.Barcode,
		Name:          p.Name,
		UnitPrice:     p.UnitPrice,
		StockCurrent:  p.StockCurrent,
		TaxRateID:     p.TaxRateID,
		TaxPercentage: taxPercentage,
	}
}

func toCustomerOption(t *partner.ThirdParty) CustomerOption {
	return CustomerOption{
		ID:                   t.ID,
		IdentificationNumber: t.IdentificationNumber,
		Name:                 t.DisplayName(),
		Email:                t.Email,
	}
}
