package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenMemory(t.Name())
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	for _, table := range []string{"projects", "charts", "activity_log", "api_keys"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	// Idempotent.
	require.NoError(t, db.RunMigrations())
}

func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestOpenMemory_NamesAreIsolated(t *testing.T) {
	ctx := context.Background()
	a, err := OpenMemory(t.Name() + "_a")
	require.NoError(t, err)
	defer a.Close()
	b, err := OpenMemory(t.Name() + "_b")
	require.NoError(t, err)
	defer b.Close()

	_, err = a.ExecContext(ctx,
		`INSERT INTO projects (id, tenant_id, name, start_date, end_date, color, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"p1", "tenant1", "Terminal", "2025-01-15", "2025-03-15", "#007bff", 0)
	require.NoError(t, err)

	var count int
	require.NoError(t, b.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count))
	require.Equal(t, 0, count)
}

func TestProjectsPrimaryKeyIsPerTenant(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insert := `INSERT INTO projects (id, tenant_id, name, start_date, end_date, color, position, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.ExecContext(ctx, insert, "p1", "tenant1", "A", "2025-01-01", "2025-01-02", "#007bff", 0, time.Now())
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, insert, "p1", "tenant2", "B", "2025-01-01", "2025-01-02", "#007bff", 0, time.Now())
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, insert, "p1", "tenant1", "C", "2025-01-01", "2025-01-02", "#007bff", 1, time.Now())
	require.Error(t, err)
	require.True(t, isUniqueViolation(err))
}
