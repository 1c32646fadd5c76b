package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/shared"
)

var productCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Product represents a sellable item of the store.
// Stock is changed only by invoice issuance and void; catalog maintenance
// sets the opening stock at creation time.
type Product struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Barcode      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	StockCurrent decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockMin     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockMax     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRateID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Active       bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product with zero stock
func NewProduct(code, barcode, name string, unitPrice decimal.Decimal, taxRateID uuid.UUID) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateBarcode(barcode); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if taxRateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate is required")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Barcode:           strings.TrimSpace(barcode),
		Name:              name,
		UnitPrice:         unitPrice,
		StockCurrent:      decimal.Zero,
		StockMin:          decimal.Zero,
		StockMax:          decimal.Zero,
		TaxRateID:         taxRateID,
		Active:            true,
	}, nil
}

// Update updates the product's descriptive and pricing information
func (p *Product) Update(name, description string, unitPrice decimal.Decimal, taxRateID uuid.UUID) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if taxRateID == uuid.Nil {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate is required")
	}

	p.Name = name
	p.Description = description
	p.UnitPrice = unitPrice
	p.TaxRateID = taxRateID
	p.IncrementVersion()
	return nil
}

// UpdateCodes changes code and barcode; uniqueness is checked by the caller.
func (p *Product) UpdateCodes(code, barcode string) error {
	if err := validateProductCode(code); err != nil {
		return err
	}
	if err := validateBarcode(barcode); err != nil {
		return err
	}
	p.Code = strings.ToUpper(code)
	p.Barcode = strings.TrimSpace(barcode)
	p.IncrementVersion()
	return nil
}

// SetStockLimits sets the minimum and maximum stock levels.
// A zero maximum means unbounded.
func (p *Product) SetStockLimits(minStock, maxStock decimal.Decimal) error {
	if minStock.IsNegative() || maxStock.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK_LIMIT", "Stock limits cannot be negative")
	}
	if !maxStock.IsZero() && minStock.GreaterThan(maxStock) {
		return shared.NewDomainError("INVALID_STOCK_LIMIT", "Minimum stock cannot exceed maximum stock")
	}
	p.StockMin = minStock
	p.StockMax = maxStock
	p.IncrementVersion()
	return nil
}

// SetOpeningStock sets the stock of a product that has not been persisted yet.
func (p *Product) SetOpeningStock(qty decimal.Decimal) error {
	if qty.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Opening stock cannot be negative")
	}
	p.StockCurrent = qty
	return nil
}

// Activate marks the product as sellable
func (p *Product) Activate() error {
	if p.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	p.Active = true
	p.IncrementVersion()
	return nil
}

// Deactivate removes the product from sale without deleting it
func (p *Product) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.Active = false
	p.IncrementVersion()
	return nil
}

// IsActive returns true if the product can be sold
func (p *Product) IsActive() bool {
	return p.Active
}

// HasStock reports whether qty can be taken from the current stock.
func (p *Product) HasStock(qty decimal.Decimal) bool {
	return p.StockCurrent.GreaterThanOrEqual(qty)
}

// IsBelowMinimum reports whether the stock is at or under the alert level.
func (p *Product) IsBelowMinimum() bool {
	return p.StockCurrent.LessThanOrEqual(p.StockMin)
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	if !productCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateBarcode(barcode string) error {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}
	if len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
