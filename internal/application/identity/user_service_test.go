package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appidentity "github.com/supermercado/backend/internal/application/identity"
	"github.com/supermercado/backend/internal/domain/identity"
	"github.com/supermercado/backend/internal/domain/shared"
)

func TestUserService_Create(t *testing.T) {
	env := newIdentityEnv(t)
	ctx := context.Background()

	t.Run("new cashier can log in", func(t *testing.T) {
		created, err := env.users.Create(ctx, appidentity.CreateUserRequest{
			Name:     "Laura Caja",
			Email:    "Laura@Supermercado.co",
			Password: "Turno2024noche",
			RoleID:   env.f.CashierRole.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "laura@supermercado.co", created.Email)
		assert.True(t, created.Active)

		_, err = env.auth.Login(ctx, appidentity.LoginRequest{Email: "laura@supermercado.co", Password: "Turno2024noche"})
		require.NoError(t, err)
	})

	tests := []struct {
		name string
		req  appidentity.CreateUserRequest
		code string
	}{
		{
			name: "duplicate email",
			req:  appidentity.CreateUserRequest{Name: "Otra Ana", Email: "admin@supermercado.co", Password: "Clave2024segura", RoleID: env.f.AdminRole.ID},
			code: shared.CodeAlreadyExists,
		},
		{
			name: "unknown role",
			req:  appidentity.CreateUserRequest{Name: "Sin Rol", Email: "sinrol@supermercado.co", Password: "Clave2024segura", RoleID: uuid.New()},
			code: shared.CodeValidation,
		},
		{
			name: "weak password",
			req:  appidentity.CreateUserRequest{Name: "Debil", Email: "debil@supermercado.co", Password: "solotexto", RoleID: env.f.CashierRole.ID},
			code: "INVALID_PASSWORD",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Create(ctx, tt.req)
			assert.Equal(t, tt.code, domainCode(t, err))
		})
	}
}

func TestUserService_DeactivateRevokesSessions(t *testing.T) {
	env := newIdentityEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Login(ctx, appidentity.LoginRequest{Email: "cajero@supermercado.co", Password: "Cajero2024seguro"})
	require.NoError(t, err)
	claims, err := env.jwt.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)

	inactive := false
	updated, err := env.users.Update(ctx, env.f.Cashier.ID, appidentity.UpdateUserRequest{
		Name:   "Carlos Caja",
		Email:  "cajero@supermercado.co",
		RoleID: env.f.CashierRole.ID,
		Active: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	revoked, err := env.blacklist.IsUserRevoked(ctx, env.f.Cashier.ID.String(), claims.GetIssuedAtTime())
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = env.blacklist.IsUserRevoked(ctx, env.f.Cashier.ID.String(), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued later stay valid")
}

func TestUserService_UpdatePassword(t *testing.T) {
	env := newIdentityEnv(t)
	ctx := context.Background()

	_, err := env.users.Update(ctx, env.f.Cashier.ID, appidentity.UpdateUserRequest{
		Name:     "Carlos Caja",
		Email:    "cajero@supermercado.co",
		Password: "NuevaClave2026",
		RoleID:   env.f.CashierRole.ID,
	})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, appidentity.LoginRequest{Email: "cajero@supermercado.co", Password: "NuevaClave2026"})
	require.NoError(t, err)

	_, err = env.users.Update(ctx, env.f.Cashier.ID, appidentity.UpdateUserRequest{
		Name:   "Carlos Caja",
		Email:  "admin@supermercado.co",
		RoleID: env.f.CashierRole.ID,
	})
	assert.Equal(t, shared.CodeAlreadyExists, domainCode(t, err))
}

func TestUserService_ListAndDelete(t *testing.T) {
	env := newIdentityEnv(t)
	ctx := context.Background()

	page, err := env.users.List(ctx, shared.Filter{Search: "caja"})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, env.f.Cashier.ID, page.Items[0].ID)

	require.NoError(t, env.users.Delete(ctx, env.f.Inactive.ID))
	_, err = env.users.GetByID(ctx, env.f.Inactive.ID)
	assert.Equal(t, shared.CodeNotFound, domainCode(t, err))

	err = env.users.Delete(ctx, env.f.Inactive.ID)
	assert.Equal(t, shared.CodeNotFound, domainCode(t, err))
}

func TestRoleService(t *testing.T) {
	env := newIdentityEnv(t)
	ctx := context.Background()

	t.Run("create and rename", func(t *testing.T) {
		created, err := env.roles.Create(ctx, appidentity.RoleRequest{Name: "Bodeguero", Description: "Recibe mercancia"})
		require.NoError(t, err)

		updated, err := env.roles.Update(ctx, created.ID, appidentity.RoleRequest{Name: "Almacenista"})
		require.NoError(t, err)
		assert.Equal(t, "Almacenista", updated.Name)
	})

	t.Run("names are unique ignoring case", func(t *testing.T) {
		_, err := env.roles.Create(ctx, appidentity.RoleRequest{Name: "administrador"})
		assert.Equal(t, shared.CodeAlreadyExists, domainCode(t, err))
	})

	t.Run("a role in use cannot be deleted", func(t *testing.T) {
		err := env.roles.Delete(ctx, env.f.CashierRole.ID)
		assert.Equal(t, shared.CodeBusinessRule, domainCode(t, err))
	})

	t.Run("an unused role can be deleted", func(t *testing.T) {
		role, err := identity.NewRole("Temporal", "")
		require.NoError(t, err)
		require.NoError(t, env.db.Create(role).Error)

		require.NoError(t, env.roles.Delete(ctx, role.ID))
		_, err = env.roles.GetByID(ctx, role.ID)
		assert.Equal(t, shared.CodeNotFound, domainCode(t, err))
	})
}
