package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-inventory-loader/internal/database"
	"github.com/fekuna/omnipos-inventory-loader/internal/testutil"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertIgnoreConflicts_ReportsPersistedKeys(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	a, b, dup := uuid.New(), uuid.New(), uuid.New()
	rows := [][]any{
		{a, "Nike"},
		{b, "Adidas"},
		{dup, "Nike"}, // same unique name as the first row
	}

	got, err := database.InsertIgnoreConflicts(ctx, db, "brands", []string{"id", "name"}, rows, 0)
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Contains(t, got, a)
	assert.Contains(t, got, b)
	assert.NotContains(t, got, dup)
	assert.Equal(t, 2, testutil.Count(t, db, "brands"))
}

func TestInsertIgnoreConflicts_Chunks(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	var rows [][]any
	for i := 0; i < 25; i++ {
		rows = append(rows, []any{uuid.New(), "attr-" + string(rune('a'+i))})
	}

	got, err := database.InsertIgnoreConflicts(ctx, db, "attributes", []string{"id", "name"}, rows, 4)
	require.NoError(t, err)
	assert.Len(t, got, 25)
	assert.Equal(t, 25, testutil.Count(t, db, "attributes"))
}

func TestInsertIgnoreConflicts_RowWidthMismatch(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	_, err := database.InsertIgnoreConflicts(context.Background(), db, "brands", []string{"id", "name"}, [][]any{{uuid.New()}}, 0)
	assert.Error(t, err)
}

func TestInsertIgnoreConflicts_Empty(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	got, err := database.InsertIgnoreConflicts(context.Background(), db, "brands", []string{"id", "name"}, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	require.NoError(t, database.Migrate(context.Background(), db))
	assert.Equal(t, database.DriverSQLite, database.Dialect(db))
}

func TestCountInserted_JoinTable(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	cat, brand, product, variation := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	attr, red, blue := uuid.New(), uuid.New(), uuid.New()
	mustExec(t, db, "INSERT INTO categories (id, name) VALUES (?, ?)", cat, "2")
	mustExec(t, db, "INSERT INTO brands (id, name) VALUES (?, ?)", brand, "Nike")
	mustExec(t, db, "INSERT INTO products (id, name, category_id, brand_id) VALUES (?, ?, ?, ?)", product, "Bota", cat, brand)
	mustExec(t, db, "INSERT INTO variations (id, product_id) VALUES (?, ?)", variation, product)
	mustExec(t, db, "INSERT INTO attributes (id, name) VALUES (?, ?)", attr, "Color")
	mustExec(t, db, "INSERT INTO attribute_values (id, attribute_id, value) VALUES (?, ?, ?), (?, ?, ?)", red, attr, "Rojo", blue, attr, "Azul")

	cols := []string{"variation_id", "attribute_value_id"}
	n, err := database.CountInserted(ctx, db, "variation_attribute_values", cols, [][]any{
		{variation, red},
		{variation, blue},
		{variation, red},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	deleted, err := database.DeleteIn(ctx, db, "variation_attribute_values", "variation_id", []uuid.UUID{variation})
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
}

func TestWithTx(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	err := database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO brands (id, name) VALUES (?, ?)"), uuid.New(), "Nike")
		require.NoError(t, err)
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")
	assert.Equal(t, 0, testutil.Count(t, db, "brands"))

	err = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO brands (id, name) VALUES (?, ?)"), uuid.New(), "Nike")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.Count(t, db, "brands"))

	assert.Panics(t, func() {
		_ = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
			_, _ = tx.ExecContext(ctx, tx.Rebind("INSERT INTO brands (id, name) VALUES (?, ?)"), uuid.New(), "Puma")
			panic("boom")
		})
	})
	assert.Equal(t, 1, testutil.Count(t, db, "brands"))
}

func mustExec(t *testing.T, db *sqlx.DB, query string, args ...any) {
	t.Helper()
	_, err := db.Exec(db.Rebind(query), args...)
	require.NoError(t, err)
}
