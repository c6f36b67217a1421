package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Resolver maps names to persisted lookup identities for the lifetime of a
// single import run.
type Resolver interface {
	Category(ctx context.Context, name string) (uuid.UUID, error)
	Subcategory(ctx context.Context, categoryID uuid.UUID, name string) (uuid.UUID, error)
	Brand(ctx context.Context, name string) (uuid.UUID, error)
	Supplier(ctx context.Context, name string) (uuid.UUID, error)
	// AttributeValue resolves the attribute by name first, then its value.
	AttributeValue(ctx context.Context, attribute, value string) (uuid.UUID, error)
	Stats() Stats
}

// Stats counts cache hits and misses across every lookup kind.
type Stats struct {
	Hits   int
	Misses int
}
