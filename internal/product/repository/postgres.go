package repository

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-inventory-loader/internal/database"
	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB        sqlx.ExtContext
	ChunkSize int
}

func NewPGRepository(db sqlx.ExtContext, chunkSize int) *PGRepository {
	return &PGRepository{DB: db, ChunkSize: chunkSize}
}

var (
	productColumns = []string{
		"id", "name", "description", "sku", "condition", "status",
		"category_id", "subcategory_id", "brand_id",
	}
	variationColumns   = []string{"id", "product_id", "sku", "sale_price", "stock"}
	measurementColumns = []string{"variation_id", "weight_g", "height_cm", "width_cm", "length_cm"}
	linkColumns        = []string{"variation_id", "attribute_value_id"}
)

func (r *PGRepository) InsertProducts(ctx context.Context, products []model.Product) (map[uuid.UUID]struct{}, error) {
	rows := make([][]any, len(products))
	for i, p := range products {
		rows[i] = []any{
			p.ID, p.Name, p.Description, p.SKU, p.Condition, string(p.Status),
			p.CategoryID, p.SubcategoryID, p.BrandID,
		}
	}
	return database.InsertIgnoreConflicts(ctx, r.DB, "products", productColumns, rows, r.ChunkSize)
}

func (r *PGRepository) InsertVariations(ctx context.Context, variations []model.Variation) (map[uuid.UUID]struct{}, error) {
	rows := make([][]any, len(variations))
	for i, v := range variations {
		rows[i] = []any{v.ID, v.ProductID, v.SKU, v.SalePrice, v.Stock}
	}
	return database.InsertIgnoreConflicts(ctx, r.DB, "variations", variationColumns, rows, r.ChunkSize)
}

func (r *PGRepository) InsertMeasurements(ctx context.Context, measurements []model.Measurement) (map[uuid.UUID]struct{}, error) {
	rows := make([][]any, len(measurements))
	for i, m := range measurements {
		rows[i] = []any{m.VariationID, m.WeightGrams, m.HeightCm, m.WidthCm, m.LengthCm}
	}
	return database.InsertIgnoreConflicts(ctx, r.DB, "measurements", measurementColumns, rows, r.ChunkSize)
}

func (r *PGRepository) SetVariationAttributes(ctx context.Context, links []model.VariationAttributes) (int, error) {
	if len(links) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(links))
	var rows [][]any
	for _, l := range links {
		ids = append(ids, l.VariationID)
		for _, valueID := range l.ValueIDs {
			rows = append(rows, []any{l.VariationID, valueID})
		}
	}

	if _, err := database.DeleteIn(ctx, r.DB, "variation_attribute_values", "variation_id", ids); err != nil {
		return 0, err
	}
	n, err := database.CountInserted(ctx, r.DB, "variation_attribute_values", linkColumns, rows, r.ChunkSize)
	if err != nil {
		return 0, fmt.Errorf("link attributes: %w", err)
	}
	return n, nil
}

func (r *PGRepository) UnitsInStock(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.DB, &n, "SELECT COALESCE(SUM(stock), 0) FROM variations"); err != nil {
		return 0, fmt.Errorf("sum stock: %w", err)
	}
	return n, nil
}
