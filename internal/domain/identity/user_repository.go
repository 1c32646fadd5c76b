package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	shared.Repository[User]

	// FindByEmail finds a user by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if a user other than excludeID uses email
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)

	// CountByRole counts users assigned to a role
	CountByRole(ctx context.Context, roleID uuid.UUID) (int64, error)
}
