package billing

import (
	"strings"

	"github.com/supermercado/backend/internal/domain/shared"
)

// DocumentTypeSalesInvoice is the default code of sales invoices
const DocumentTypeSalesInvoice = "FV"

// DocumentType classifies business documents (sales invoice, credit note...)
type DocumentType struct {
	shared.BaseEntity
	Code   string `gorm:"type:varchar(10);not null;uniqueIndex"`
	Name   string `gorm:"type:varchar(100);not null"`
	Active bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentType) TableName() string {
	return "document_types"
}

// NewDocumentType creates an active document type
func NewDocumentType(code, name string) (*DocumentType, error) {
	d := &DocumentType{BaseEntity: shared.NewBaseEntity(), Active: true}
	if err := d.Update(code, name); err != nil {
		return nil, err
	}
	return d, nil
}

// Update validates and applies new values
func (d *DocumentType) Update(code, name string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 10 {
		return shared.NewValidationError("Document type code must be between 1 and 10 characters")
	}
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("Document type name cannot be empty")
	}
	d.Code = code
	d.Name = strings.TrimSpace(name)
	d.Touch()
	return nil
}

// SetActive toggles the active flag
func (d *DocumentType) SetActive(active bool) {
	d.Active = active
	d.Touch()
}
