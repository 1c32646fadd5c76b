package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/identity"
)

// LoginRequest is the body of POST /Auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginResponse carries the access token and who it belongs to.
// ExpireIn is the token lifetime in seconds.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpireIn    int64  `json:"expireIn"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// CurrentUserResponse describes the authenticated user
type CurrentUserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"nombre"`
	Email       string     `json:"email"`
	RoleID      uuid.UUID  `json:"rolId"`
	Role        string     `json:"rol"`
	LastLoginAt *time.Time `json:"ultimoAcceso,omitempty"`
}

// CreateUserRequest creates a user
type CreateUserRequest struct {
	Name     string    `json:"nombre" binding:"required,min=1,max=150"`
	Email    string    `json:"email" binding:"required,email,max=200"`
	Password string    `json:"password" binding:"required,min=8,max=72"`
	RoleID   uuid.UUID `json:"rolId" binding:"required"`
	Active   *bool     `json:"activo"`
}

// UpdateUserRequest updates a user. An empty Password keeps the current one.
type UpdateUserRequest struct {
	Name     string    `json:"nombre" binding:"required,min=1,max=150"`
	Email    string    `json:"email" binding:"required,email,max=200"`
	Password string    `json:"password" binding:"omitempty,min=8,max=72"`
	RoleID   uuid.UUID `json:"rolId" binding:"required"`
	Active   *bool     `json:"activo"`
}

// UserResponse is a user without its password hash
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"nombre"`
	Email       string     `json:"email"`
	RoleID      uuid.UUID  `json:"rolId"`
	Active      bool       `json:"activo"`
	LastLoginAt *time.Time `json:"ultimoAcceso,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// RoleRequest creates or updates a role
type RoleRequest struct {
	Name        string `json:"nombre" binding:"required,min=1,max=100"`
	Description string `json:"descripcion" binding:"max=500"`
	Active      *bool  `json:"activo"`
}

// RoleResponse is a role
type RoleResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Active      bool      `json:"activo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToUserResponse converts a domain User to a response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		RoleID:      u.RoleID,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToRoleResponse converts a domain Role to a response
func ToRoleResponse(r *identity.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
