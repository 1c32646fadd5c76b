package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	*GormRepository[identity.Role]
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{
		GormRepository: newGormRepository[identity.Role](db, queryOptions{
			sortFields:    RoleSortFields,
			defaultOrder:  "name",
			searchColumns: []string{"name", "description"},
			filterColumns: map[string]string{"active": "active"},
		}),
	}
}

// ExistsByName checks if a role other than excludeID uses name, ignoring case
func (r *GormRoleRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	return r.existsWhere(ctx, excludeID, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
}

// Ensure GormRoleRepository implements RoleRepository
var _ identity.RoleRepository = (*GormRoleRepository)(nil)
