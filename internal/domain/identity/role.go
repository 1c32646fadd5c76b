package identity

import (
	"strings"

	"github.com/supermercado/backend/internal/domain/shared"
)

// RoleAdministrator is the role allowed to manage users and roles.
const RoleAdministrator = "Administrador"

// Role groups users for authorization purposes
type Role struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(500)"`
	Active      bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// NewRole creates an active role
func NewRole(name, description string) (*Role, error) {
	r := &Role{BaseEntity: shared.NewBaseEntity(), Active: true}
	if err := r.Update(name, description); err != nil {
		return nil, err
	}
	return r, nil
}

// Update validates and applies new values
func (r *Role) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewValidationError("Role name must be between 1 and 100 characters")
	}
	if len(description) > 500 {
		return shared.NewValidationError("Role description cannot exceed 500 characters")
	}
	r.Name = name
	r.Description = description
	r.Touch()
	return nil
}

// SetActive toggles the active flag
func (r *Role) SetActive(active bool) {
	r.Active = active
	r.Touch()
}

// IsAdministrator reports whether the role grants administration rights
func (r *Role) IsAdministrator() bool {
	return strings.EqualFold(r.Name, RoleAdministrator)
}
