package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/catalog"
)

// ProductRequest creates or updates a product.
// StockCurrent is only read on creation; invoicing owns it afterwards.
type ProductRequest struct {
	Code         string           `json:"codigo" binding:"required,min=1,max=50"`
	Barcode      string           `json:"codigoBarras" binding:"required,min=1,max=50"`
	Name         string           `json:"nombre" binding:"required,min=1,max=200"`
	Description  string           `json:"descripcion" binding:"max=2000"`
	UnitPrice    decimal.Decimal  `json:"precioUnitario"`
	StockCurrent *decimal.Decimal `json:"stockActual"`
	StockMin     decimal.Decimal  `json:"stockMinimo"`
	StockMax     decimal.Decimal  `json:"stockMaximo"`
	TaxRateID    uuid.UUID        `json:"impuestoId" binding:"required"`
	Active       *bool            `json:"activo"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"codigo"`
	Barcode      string          `json:"codigoBarras"`
	Name         string          `json:"nombre"`
	Description  string          `json:"descripcion"`
	UnitPrice    decimal.Decimal `json:"precioUnitario"`
	StockCurrent decimal.Decimal `json:"stockActual"`
	StockMin     decimal.Decimal `json:"stockMinimo"`
	StockMax     decimal.Decimal `json:"stockMaximo"`
	TaxRateID    uuid.UUID       `json:"impuestoId"`
	Active       bool            `json:"activo"`
	LowStock     bool            `json:"stockBajo"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// TaxRateRequest creates or updates a tax rate
type TaxRateRequest struct {
	Code       string          `json:"codigo" binding:"required,min=1,max=20"`
	Name       string          `json:"nombre" binding:"required,min=1,max=100"`
	Percentage decimal.Decimal `json:"porcentaje"`
	Active     *bool           `json:"activo"`
}

// TaxRateResponse represents a tax rate in API responses
type TaxRateResponse struct {
	ID         uuid.UUID       `json:"id"`
	Code       string          `json:"codigo"`
	Name       string          `json:"nombre"`
	Percentage decimal.Decimal `json:"porcentaje"`
	Active     bool            `json:"activo"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ToProductResponse converts a domain Product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Description:  p.Description,
		UnitPrice:    p.UnitPrice,
		StockCurrent: p.StockCurrent,
		StockMin:     p.StockMin,
		StockMax:     p.StockMax,
		TaxRateID:    p.TaxRateID,
		Active:       p.Active,
		LowStock:     p.IsBelowMinimum(),
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToTaxRateResponse converts a domain TaxRate to a response
func ToTaxRateResponse(t *catalog.TaxRate) TaxRateResponse {
	return TaxRateResponse{
		ID:         t.ID,
		Code:       t.Code,
		Name:       t.Name,
		Percentage: t.Percentage,
		Active:     t.Active,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
