package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/shared"
)

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	shared.Repository[Role]

	// ExistsByName checks if a role other than excludeID uses name
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
}
