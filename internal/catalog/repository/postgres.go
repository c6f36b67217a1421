package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PGRepository works on PostgreSQL and SQLite; queries are written with '?'
// placeholders and rebound for the underlying driver.
type PGRepository struct {
	DB sqlx.ExtContext
}

func NewPGRepository(db sqlx.ExtContext) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetOrCreateCategory(ctx context.Context, name string) (uuid.UUID, error) {
	return r.getOrCreate(ctx, "categories", []string{"name"}, name)
}

func (r *PGRepository) GetOrCreateSubcategory(ctx context.Context, categoryID uuid.UUID, name string) (uuid.UUID, error) {
	return r.getOrCreate(ctx, "subcategories", []string{"category_id", "name"}, categoryID, name)
}

func (r *PGRepository) GetOrCreateBrand(ctx context.Context, name string) (uuid.UUID, error) {
	return r.getOrCreate(ctx, "brands", []string{"name"}, name)
}

func (r *PGRepository) GetOrCreateSupplier(ctx context.Context, name string) (uuid.UUID, error) {
	return r.getOrCreate(ctx, "suppliers", []string{"name"}, name)
}

func (r *PGRepository) GetOrCreateAttribute(ctx context.Context, name string) (uuid.UUID, error) {
	return r.getOrCreate(ctx, "attributes", []string{"name"}, name)
}

func (r *PGRepository) GetOrCreateAttributeValue(ctx context.Context, attributeID uuid.UUID, value string) (uuid.UUID, error) {
	return r.getOrCreate(ctx, "attribute_values", []string{"attribute_id", "value"}, attributeID, value)
}

// getOrCreate inserts a row keyed by keys unless one already exists, then
// reads back whichever row owns the key.
func (r *PGRepository) getOrCreate(ctx context.Context, table string, keys []string, values ...any) (uuid.UUID, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	insert := fmt.Sprintf(
		"INSERT INTO %s (id, %s) VALUES (?, %s) ON CONFLICT DO NOTHING",
		table, strings.Join(keys, ", "), placeholders,
	)
	args := append([]any{uuid.New()}, values...)
	if _, err := r.DB.ExecContext(ctx, r.DB.Rebind(insert), args...); err != nil {
		return uuid.Nil, fmt.Errorf("insert %s: %w", table, err)
	}

	conds := make([]string, len(keys))
	for i, k := range keys {
		conds[i] = k + " = ?"
	}
	query := fmt.Sprintf("SELECT id FROM %s WHERE %s LIMIT 1", table, strings.Join(conds, " AND "))

	var id uuid.UUID
	if err := sqlx.GetContext(ctx, r.DB, &id, r.DB.Rebind(query), values...); err != nil {
		return uuid.Nil, fmt.Errorf("select %s: %w", table, err)
	}
	return id, nil
}
