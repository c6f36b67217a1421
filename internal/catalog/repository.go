package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository resolves lookup entities by natural key, creating them when
// absent. Every method is safe to call repeatedly with the same key.
type Repository interface {
	GetOrCreateCategory(ctx context.Context, name string) (uuid.UUID, error)
	GetOrCreateSubcategory(ctx context.Context, categoryID uuid.UUID, name string) (uuid.UUID, error)
	GetOrCreateBrand(ctx context.Context, name string) (uuid.UUID, error)
	GetOrCreateSupplier(ctx context.Context, name string) (uuid.UUID, error)
	GetOrCreateAttribute(ctx context.Context, name string) (uuid.UUID, error)
	GetOrCreateAttributeValue(ctx context.Context, attributeID uuid.UUID, value string) (uuid.UUID, error)
}
