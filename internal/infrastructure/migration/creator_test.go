package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create invoices", "create_invoices"},
		{"Add-Void-Status", "add_void_status"},
		{"ADD__PAYMENT__REFERENCE", "add_payment_reference"},
		{"  index por fecha  ", "index_por_fecha"},
		{"numeración!", "numeracin"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "create catalog", "products and tax rates")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_create_catalog.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_create_catalog.down.sql"), first.DownPath)

	second, err := CreateMigration(dir, "create billing", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- create catalog")
	assert.Contains(t, string(up), "-- products and tax rates")
	assert.Contains(t, string(up), "BEGIN;")

	down, err := os.ReadFile(second.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(rollback)")
}

func TestCreateMigration_ContinuesAfterExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_seed.up.sql"), []byte("SELECT 1;"), 0o644))

	f, err := CreateMigration(dir, "next", "")
	require.NoError(t, err)
	assert.Equal(t, uint(8), f.Version)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_create_billing.up.sql",
		"000002_create_billing.down.sql",
		"000001_create_catalog.up.sql",
		"000003_seed.up.sql",
		"README.md",
		"notes.up.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000009_dir.up.sql"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Equal(t, Migration{Version: 1, Name: "create_catalog"}, migrations[0])
	assert.Equal(t, Migration{Version: 2, Name: "create_billing", HasDown: true}, migrations[1])
	assert.Equal(t, uint(3), migrations[2].Version)

	pending := Pending(migrations, 1)
	require.Len(t, pending, 2)
	assert.Equal(t, uint(2), pending[0].Version)
	assert.Empty(t, Pending(migrations, 3))
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_ShippedSchema(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	for i, m := range migrations {
		assert.Equal(t, uint(i+1), m.Version, "versions must be contiguous")
		assert.True(t, m.HasDown, "%06d_%s has no down script", m.Version, m.Name)
	}
}
