package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/packfinderz-loyalty/pkg/db/models"
)

func TestLedgerMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_loyalty_ledger.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no loyalty ledger migration file found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS points_accounts",
		"CREATE TABLE IF NOT EXISTS loyalty_orders",
		"CREATE TABLE IF NOT EXISTS purchase_ledger_entries",
		"CREATE TABLE IF NOT EXISTS points_ledger_entries",
		"CHECK (available_points >= 0)",
		"CHECK (kind IN ('accrual', 'redemption'))",
		"ux_points_ledger_entries_order_id",
		"DROP TABLE IF EXISTS points_accounts",
	}
	for _, want := range checks {
		assert.Contains(t, content, want)
	}
}

func TestCheckDirAcceptsRepositoryMigrations(t *testing.T) {
	require.NoError(t, CheckDir("migrations"))
}

func TestCheckDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	err := CheckDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration filename")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260301120000_up_only.sql"), []byte("-- +goose Up\nSELECT 1;\n"), 0o644))
	err = CheckDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-- +goose Down")
}

func TestNewSQLFileWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 7, 1, 8, 30, 0, 0, time.UTC)

	path, err := NewSQLFile(dir, "Add Points Index!", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260701083000_add_points_index.sql"), path)
	require.NoError(t, CheckDir(dir))

	_, err = NewSQLFile(dir, "Add Points Index!", now)
	assert.Error(t, err, "existing files must not be overwritten")

	_, err = NewSQLFile(dir, "!!!", now)
	assert.Error(t, err)
}

func TestDialect(t *testing.T) {
	cases := map[string]string{"": "postgres", "postgres": "postgres", "SQLite": "sqlite3"}
	for driver, want := range cases {
		got, err := Dialect(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got, driver)
	}
	_, err := Dialect("mysql")
	assert.Error(t, err)
}

func TestRunUpCreatesTablesOnSQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:migrate_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Run(context.Background(), sqlDB, "sqlite3", "migrations", "up"))

	for _, model := range models.All() {
		assert.True(t, conn.Migrator().HasTable(model), "%T table missing", model)
	}

	require.NoError(t, Run(context.Background(), sqlDB, "sqlite3", "migrations", "down"))
	assert.False(t, conn.Migrator().HasTable(&models.PointsAccount{}))
}

func TestMigrateToVersionRejectsBadInput(t *testing.T) {
	assert.Error(t, MigrateToVersion(context.Background(), nil, "sqlite3", "migrations", "latest"))
	assert.Error(t, MigrateToVersion(context.Background(), nil, "sqlite3", "migrations", "20260101000000"))
}
