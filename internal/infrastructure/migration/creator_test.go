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
		input string
		want  string
	}{
		{"add sales records", "add_sales_records"},
		{"Add-Purchase-Orders", "add_purchase_orders"},
		{"ADD_FORECAST_ACCURACY", "add_forecast_accuracy"},
		{"add__sales__order__lines", "add_sales_order_lines"},
		{"Alert Table v2", "alert_table_v2"},
		{"   spaces   ", "spaces"},
		{"cross!@#dock", "crossdock"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add suppliers", "supplier master table")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.Equal(t, "add suppliers", mf.Name)
	assert.Equal(t, "supplier master table", mf.Description)

	assert.FileExists(t, mf.UpPath)
	assert.FileExists(t, mf.DownPath)
	assert.Equal(t, mf.Version+"_add_suppliers.up.sql", filepath.Base(mf.UpPath))
	assert.Equal(t, mf.Version+"_add_suppliers.down.sql", filepath.Base(mf.DownPath))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add suppliers")
	assert.Contains(t, string(up), "supplier master table")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "rollback")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(dir, "add product stocks", "")
	require.NoError(t, err)

	assert.DirExists(t, dir)
	assert.FileExists(t, mf.UpPath)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Empty(t, migrations)

	first, err := CreateMigration(dir, "add suppliers", "")
	require.NoError(t, err)
	second, err := CreateMigration(dir, "add purchase orders", "")
	require.NoError(t, err)

	// stray files without an up pair are not listed
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	migrations, err = ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Contains(t, migrations, first.Version+"_add_suppliers")
	assert.Contains(t, migrations, second.Version+"_add_purchase_orders")
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
