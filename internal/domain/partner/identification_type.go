package partner

import (
	"strings"

	"github.com/supermercado/backend/internal/domain/shared"
)

// IdentificationType is a kind of identity document (CC, CE, NIT, PP).
type IdentificationType struct {
	shared.BaseEntity
	Code   string `gorm:"type:varchar(10);not null;uniqueIndex"`
	Name   string `gorm:"type:varchar(100);not null"`
	Active bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IdentificationType) TableName() string {
	return "identification_types"
}

// NewIdentificationType creates an active identification type
func NewIdentificationType(code, name string) (*IdentificationType, error) {
	it := &IdentificationType{BaseEntity: shared.NewBaseEntity(), Active: true}
	if err := it.Update(code, name); err != nil {
		return nil, err
	}
	return it, nil
}

// Update validates and applies new values
func (i *IdentificationType) Update(code, name string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 10 {
		return shared.NewValidationError("Identification type code must be between 1 and 10 characters")
	}
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("Identification type name cannot be empty")
	}
	i.Code = code
	i.Name = strings.TrimSpace(name)
	i.Touch()
	return nil
}

// SetActive toggles the active flag
func (i *IdentificationType) SetActive(active bool) {
	i.Active = active
	i.Touch()
}
