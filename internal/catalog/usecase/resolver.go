package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-inventory-loader/internal/catalog"
	"github.com/fekuna/omnipos-inventory-loader/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type subcategoryKey struct {
	categoryID uuid.UUID
	name       string
}

type attributeValueKey struct {
	attributeID uuid.UUID
	value       string
}

// resolver keeps one cache per lookup kind. A name seen once never reaches
// the repository again during the same run.
type resolver struct {
	repo   catalog.Repository
	logger logger.ZapLogger

	categories      map[string]uuid.UUID
	subcategories   map[subcategoryKey]uuid.UUID
	brands          map[string]uuid.UUID
	suppliers       map[string]uuid.UUID
	attributes      map[string]uuid.UUID
	attributeValues map[attributeValueKey]uuid.UUID

	stats catalog.Stats
}

func NewResolver(repo catalog.Repository, log logger.ZapLogger) catalog.Resolver {
	return &resolver{
		repo:            repo,
		logger:          log,
		categories:      make(map[string]uuid.UUID),
		subcategories:   make(map[subcategoryKey]uuid.UUID),
		brands:          make(map[string]uuid.UUID),
		suppliers:       make(map[string]uuid.UUID),
		attributes:      make(map[string]uuid.UUID),
		attributeValues: make(map[attributeValueKey]uuid.UUID),
	}
}

func (r *resolver) Category(ctx context.Context, name string) (uuid.UUID, error) {
	return cached(r, r.categories, name, "category", func() (uuid.UUID, error) {
		return r.repo.GetOrCreateCategory(ctx, name)
	})
}

func (r *resolver) Subcategory(ctx context.Context, categoryID uuid.UUID, name string) (uuid.UUID, error) {
	key := subcategoryKey{categoryID: categoryID, name: name}
	return cached(r, r.subcategories, key, "subcategory", func() (uuid.UUID, error) {
		return r.repo.GetOrCreateSubcategory(ctx, categoryID, name)
	})
}

func (r *resolver) Brand(ctx context.Context, name string) (uuid.UUID, error) {
	return cached(r, r.brands, name, "brand", func() (uuid.UUID, error) {
		return r.repo.GetOrCreateBrand(ctx, name)
	})
}

func (r *resolver) Supplier(ctx context.Context, name string) (uuid.UUID, error) {
	return cached(r, r.suppliers, name, "supplier", func() (uuid.UUID, error) {
		return r.repo.GetOrCreateSupplier(ctx, name)
	})
}

func (r *resolver) AttributeValue(ctx context.Context, attribute, value string) (uuid.UUID, error) {
	attrID, err := cached(r, r.attributes, attribute, "attribute", func() (uuid.UUID, error) {
		return r.repo.GetOrCreateAttribute(ctx, attribute)
	})
	if err != nil {
		return uuid.Nil, err
	}

	key := attributeValueKey{attributeID: attrID, value: value}
	return cached(r, r.attributeValues, key, "attribute value", func() (uuid.UUID, error) {
		return r.repo.GetOrCreateAttributeValue(ctx, attrID, value)
	})
}

func (r *resolver) Stats() catalog.Stats {
	return r.stats
}

func cached[K comparable](r *resolver, cache map[K]uuid.UUID, key K, kind string, load func() (uuid.UUID, error)) (uuid.UUID, error) {
	if id, ok := cache[key]; ok {
		r.stats.Hits++
		return id, nil
	}

	id, err := load()
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve %s: %w", kind, err)
	}
	r.stats.Misses++
	cache[key] = id
	r.logger.Debug("lookup resolved", zap.String("kind", kind), zap.Any("key", key), zap.Stringer("id", id))
	return id, nil
}
