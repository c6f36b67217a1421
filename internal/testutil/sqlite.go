package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fekuna/omnipos-inventory-loader/internal/database"
	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewSQLiteDB opens a migrated SQLite database in a per-test directory and
// closes it when the test ends.
func NewSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.NewSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to open sqlite")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(ctx, db), "failed to migrate schema")
	return db
}

// Count returns the number of rows in table.
func Count(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.Get(&n, "SELECT count(*) FROM "+table))
	return n
}

// InsertDebt seeds a debt row. The loader never writes debts itself.
func InsertDebt(t *testing.T, db *sqlx.DB, d model.Debt) {
	t.Helper()

	query := db.Rebind(`
        INSERT INTO debts (id, kind, amount, description, created_on, due_on, is_paid)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `)
	_, err := db.Exec(query, d.ID, string(d.Kind), d.Amount, d.Description, d.CreatedOn, d.DueOn, d.IsPaid)
	require.NoError(t, err, "failed to insert debt")
}
