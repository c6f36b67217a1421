package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-loader/internal/ledger"
	"github.com/fekuna/omnipos-inventory-loader/internal/logger"
	"github.com/fekuna/omnipos-inventory-loader/internal/metrics"
	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/fekuna/omnipos-inventory-loader/internal/product"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TableCounts describes what happened to one table's records.
type TableCounts struct {
	// Orphaned records were never submitted because their parent was not
	// persisted.
	Orphaned  int
	Submitted int
	Inserted  int
	// Dropped records were submitted but skipped on a uniqueness conflict.
	Dropped int
}

func counts(orphaned, submitted, inserted int) TableCounts {
	return TableCounts{
		Orphaned:  orphaned,
		Submitted: submitted,
		Inserted:  inserted,
		Dropped:   submitted - inserted,
	}
}

type WriteResult struct {
	Products       TableCounts
	Variations     TableCounts
	Measurements   TableCounts
	Purchases      TableCounts
	Sales          TableCounts
	AttributeLinks int
}

// Writer flushes a Batch parents first. It must run on repositories bound
// to the run's transaction.
type Writer struct {
	products product.Repository
	ledger   ledger.Repository
	logger   logger.ZapLogger
	metrics  *metrics.Recorder
}

func NewWriter(products product.Repository, ledger ledger.Repository, log logger.ZapLogger, rec *metrics.Recorder) *Writer {
	return &Writer{products: products, ledger: ledger, logger: log, metrics: rec}
}

func (w *Writer) Write(ctx context.Context, b *Batch) (WriteResult, error) {
	var res WriteResult

	// 1. Products
	persistedProducts, err := step(w, "products", func() (map[uuid.UUID]struct{}, error) {
		return w.products.InsertProducts(ctx, b.Products)
	})
	if err != nil {
		return res, err
	}
	res.Products = counts(0, len(b.Products), len(persistedProducts))

	// 2. Variations whose product exists
	variations := make([]model.Variation, 0, len(b.Variations))
	for _, pv := range b.Variations {
		p := b.Products[pv.Product]
		if _, ok := persistedProducts[p.ID]; !ok {
			continue
		}
		v := pv.Variation
		v.ProductID = p.ID
		variations = append(variations, v)
	}
	persistedVariations, err := step(w, "variations", func() (map[uuid.UUID]struct{}, error) {
		return w.products.InsertVariations(ctx, variations)
	})
	if err != nil {
		return res, err
	}
	res.Variations = counts(len(b.Variations)-len(variations), len(variations), len(persistedVariations))

	// variationID returns the identity of the i-th pending variation when it
	// was persisted.
	variationID := func(i int) (uuid.UUID, bool) {
		id := b.Variations[i].ID
		_, ok := persistedVariations[id]
		return id, ok
	}

	// 3. Dependents of persisted variations
	measurements := make([]model.Measurement, 0, len(b.Measurements))
	for _, pm := range b.Measurements {
		if id, ok := variationID(pm.Variation); ok {
			m := pm.Measurement
			m.VariationID = id
			measurements = append(measurements, m)
		}
	}
	purchases := make([]model.Purchase, 0, len(b.Purchases))
	for _, pp := range b.Purchases {
		if id, ok := variationID(pp.Variation); ok {
			p := pp.Purchase
			p.VariationID = &id
			purchases = append(purchases, p)
		}
	}
	sales := make([]model.Sale, 0, len(b.Sales))
	for _, ps := range b.Sales {
		if id, ok := variationID(ps.Variation); ok {
			s := ps.Sale
			s.VariationID = &id
			sales = append(sales, s)
		}
	}

	// 4. Bulk insert them
	persisted, err := step(w, "measurements", func() (map[uuid.UUID]struct{}, error) {
		return w.products.InsertMeasurements(ctx, measurements)
	})
	if err != nil {
		return res, err
	}
	res.Measurements = counts(len(b.Measurements)-len(measurements), len(measurements), len(persisted))

	persisted, err = step(w, "purchases", func() (map[uuid.UUID]struct{}, error) {
		return w.ledger.InsertPurchases(ctx, purchases)
	})
	if err != nil {
		return res, err
	}
	res.Purchases = counts(len(b.Purchases)-len(purchases), len(purchases), len(persisted))

	persisted, err = step(w, "sales", func() (map[uuid.UUID]struct{}, error) {
		return w.ledger.InsertSales(ctx, sales)
	})
	if err != nil {
		return res, err
	}
	res.Sales = counts(len(b.Sales)-len(sales), len(sales), len(persisted))

	// 5. Attribute links for persisted variations
	links := make([]model.VariationAttributes, 0, len(b.Links))
	for _, pl := range b.Links {
		if id, ok := variationID(pl.Variation); ok {
			links = append(links, model.VariationAttributes{VariationID: id, ValueIDs: pl.ValueIDs})
		}
	}
	start := time.Now()
	res.AttributeLinks, err = w.products.SetVariationAttributes(ctx, links)
	w.metrics.RecordStep("attribute_links", err, time.Since(start))
	if err != nil {
		return res, fmt.Errorf("write attribute links: %w", err)
	}

	w.logger.Debug("batch written",
		zap.Int("products", res.Products.Inserted),
		zap.Int("variations", res.Variations.Inserted),
		zap.Int("measurements", res.Measurements.Inserted),
		zap.Int("purchases", res.Purchases.Inserted),
		zap.Int("sales", res.Sales.Inserted),
		zap.Int("attribute_links", res.AttributeLinks),
	)
	return res, nil
}

func step(w *Writer, table string, insert func() (map[uuid.UUID]struct{}, error)) (map[uuid.UUID]struct{}, error) {
	start := time.Now()
	persisted, err := insert()
	w.metrics.RecordStep("write_"+table, err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", table, err)
	}
	w.metrics.RecordRows(table+"_inserted", len(persisted))
	return persisted, nil
}
