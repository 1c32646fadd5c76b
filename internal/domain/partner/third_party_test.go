package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThirdParty(t *testing.T) {
	typeID := uuid.New()

	t.Run("creates person customer", func(t *testing.T) {
		tp, err := NewThirdParty(typeID, " 1020304050 ", "María", "Gómez", "")
		require.NoError(t, err)
		assert.Equal(t, "1020304050", tp.IdentificationNumber)
		assert.Equal(t, "María Gómez", tp.DisplayName())
		assert.True(t, tp.IsCustomer)
		assert.False(t, tp.IsSupplier)
		assert.True(t, tp.IsActive())
	})

	t.Run("business name wins display", func(t *testing.T) {
		tp, err := NewThirdParty(typeID, "900123456-7", "", "", "Distribuidora Andina SAS")
		require.NoError(t, err)
		assert.Equal(t, "Distribuidora Andina SAS", tp.DisplayName())
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := NewThirdParty(typeID, "123", "", "Gómez", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "first name or business name")
	})

	t.Run("requires identification type", func(t *testing.T) {
		_, err := NewThirdParty(uuid.Nil, "123", "Ana", "", "")
		require.Error(t, err)
	})

	t.Run("rejects identification with symbols", func(t *testing.T) {
		_, err := NewThirdParty(typeID, "12#3", "Ana", "", "")
		require.Error(t, err)
	})
}

func TestThirdParty_SetContactAndRoles(t *testing.T) {
	tp, err := NewThirdParty(uuid.New(), "123", "Ana", "", "")
	require.NoError(t, err)

	require.NoError(t, tp.SetContact("ANA@correo.co", "+57 300 123 4567", "Calle 1"))
	assert.Equal(t, "ana@correo.co", tp.Email)

	assert.Error(t, tp.SetContact("bad", "", ""))
	assert.Error(t, tp.SetContact("", "abc", ""))

	assert.Error(t, tp.SetRoles(false, false))
	require.NoError(t, tp.SetRoles(false, true))
	assert.False(t, tp.IsCustomer)
	assert.True(t, tp.IsSupplier)
}

func TestNewIdentificationType(t *testing.T) {
	it, err := NewIdentificationType("nit", "Número de Identificación Tributaria")
	require.NoError(t, err)
	assert.Equal(t, "NIT", it.Code)

	_, err = NewIdentificationType("", "x")
	assert.Error(t, err)
}
