package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	roleID := uuid.New()

	t.Run("creates active user with hashed password", func(t *testing.T) {
		user, err := NewUser("Ana Cajera", "  Ana@Super.CO ", "Caja2024x", roleID)

		require.NoError(t, err)
		assert.Equal(t, "ana@super.co", user.Email)
		assert.Equal(t, roleID, user.RoleID)
		assert.True(t, user.IsActive())
		assert.NotEqual(t, "Caja2024x", user.PasswordHash)
		assert.True(t, user.VerifyPassword("Caja2024x"))
		assert.False(t, user.VerifyPassword("otra-clave1"))
	})

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		roleID   uuid.UUID
		errPart  string
	}{
		{"empty name", " ", "a@b.co", "Caja2024x", roleID, "Name cannot be empty"},
		{"bad email", "Ana", "not-an-email", "Caja2024x", roleID, "Invalid email format"},
		{"short password", "Ana", "a@b.co", "abc1", roleID, "at least 8 characters"},
		{"password without number", "Ana", "a@b.co", "abcdefghij", roleID, "one letter and one number"},
		{"missing role", "Ana", "a@b.co", "Caja2024x", uuid.Nil, "Role is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.userName, tt.email, tt.password, tt.roleID)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestUser_UpdateAndActivation(t *testing.T) {
	user, err := NewUser("Luis", "luis@super.co", "Clave1234", uuid.New())
	require.NoError(t, err)

	newRole := uuid.New()
	require.NoError(t, user.Update("Luis Pérez", "LUIS.P@super.co", newRole))
	assert.Equal(t, "luis.p@super.co", user.Email)
	assert.Equal(t, newRole, user.RoleID)
	assert.Equal(t, 2, user.GetVersion())

	user.SetActive(false)
	assert.False(t, user.IsActive())
	user.SetActive(false)
	assert.Equal(t, 3, user.GetVersion())

	user.RecordLogin()
	assert.NotNil(t, user.LastLoginAt)
}

func TestRole(t *testing.T) {
	role, err := NewRole("Administrador", "Acceso total")
	require.NoError(t, err)
	assert.True(t, role.IsAdministrator())
	assert.True(t, role.Active)

	cashier, err := NewRole("Cajero", "")
	require.NoError(t, err)
	assert.False(t, cashier.IsAdministrator())

	_, err = NewRole("", "")
	assert.Error(t, err)
}
