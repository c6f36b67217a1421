package product

import (
	"context"

	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/google/uuid"
)

// Repository bulk writes the product tree. Insert methods skip records that
// collide with an existing unique key and return the identities that were
// persisted.
type Repository interface {
	InsertProducts(ctx context.Context, products []model.Product) (map[uuid.UUID]struct{}, error)
	InsertVariations(ctx context.Context, variations []model.Variation) (map[uuid.UUID]struct{}, error)
	InsertMeasurements(ctx context.Context, measurements []model.Measurement) (map[uuid.UUID]struct{}, error)

	// SetVariationAttributes replaces the attribute links of every listed
	// variation and returns the number of links written.
	SetVariationAttributes(ctx context.Context, links []model.VariationAttributes) (int, error)

	UnitsInStock(ctx context.Context) (int, error)
}
