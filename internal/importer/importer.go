// Package importer loads spreadsheet exports into the inventory schema.
//
// A run reads every row, resolves lookup entities through a run-scoped
// cache, accumulates products and their dependents in memory, and writes
// them parents first at the end of the file. All of it happens inside one
// transaction: any run-level error leaves the database untouched.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fekuna/omnipos-inventory-loader/internal/catalog"
	catalogrepo "github.com/fekuna/omnipos-inventory-loader/internal/catalog/repository"
	"github.com/fekuna/omnipos-inventory-loader/internal/catalog/usecase"
	"github.com/fekuna/omnipos-inventory-loader/internal/database"
	"github.com/fekuna/omnipos-inventory-loader/internal/ledger"
	ledgerrepo "github.com/fekuna/omnipos-inventory-loader/internal/ledger/repository"
	"github.com/fekuna/omnipos-inventory-loader/internal/logger"
	"github.com/fekuna/omnipos-inventory-loader/internal/metrics"
	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/fekuna/omnipos-inventory-loader/internal/product"
	productrepo "github.com/fekuna/omnipos-inventory-loader/internal/product/repository"
	"github.com/fekuna/omnipos-inventory-loader/internal/rowsource"
	"github.com/fekuna/omnipos-inventory-loader/internal/skiplog"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const DefaultBatchSize = 1000

// errDryRun unwinds the transaction of a dry run.
var errDryRun = errors.New("dry run")

// Store is the set of repositories one run writes through.
type Store struct {
	Catalog  catalog.Repository
	Products product.Repository
	Ledger   ledger.Repository
}

// StoreFactory binds repositories to the run's transaction.
type StoreFactory func(q sqlx.ExtContext, batchSize int) Store

// NewSQLStore is the StoreFactory backed by the SQL repositories.
func NewSQLStore(q sqlx.ExtContext, batchSize int) Store {
	return Store{
		Catalog:  catalogrepo.NewPGRepository(q),
		Products: productrepo.NewPGRepository(q, batchSize),
		Ledger:   ledgerrepo.NewPGRepository(q, batchSize),
	}
}

type Options struct {
	BatchSize       int
	DryRun          bool
	Encoding        string
	DefaultCategory string
	DefaultBrand    string
}

// Deps are the collaborators of an Importer. Only DB is required.
type Deps struct {
	DB       *sqlx.DB
	NewStore StoreFactory
	Logger   logger.ZapLogger
	Metrics  *metrics.Recorder
	Skipped  *skiplog.Log
}

type Importer struct {
	db       *sqlx.DB
	newStore StoreFactory
	logger   logger.ZapLogger
	metrics  *metrics.Recorder
	skipped  *skiplog.Log
	opts     Options
}

func New(deps Deps, opts Options) *Importer {
	if deps.NewStore == nil {
		deps.NewStore = NewSQLStore
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop()
	}
	if deps.Skipped == nil {
		deps.Skipped = skiplog.Discard()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Importer{
		db:       deps.DB,
		newStore: deps.NewStore,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		skipped:  deps.Skipped,
		opts:     opts,
	}
}

// ImportFile opens path and runs the import. A missing file fails with an
// error wrapping rowsource.ErrFileNotFound before any transaction starts.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Summary, error) {
	src, err := rowsource.Open(path, im.opts.Encoding)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	s, err := im.Run(ctx, src)
	if s != nil {
		s.File = path
	}
	return s, err
}

// Run consumes src and commits the result in one transaction. The returned
// summary is non-nil even on failure and describes how far the run got.
func (im *Importer) Run(ctx context.Context, src rowsource.Source) (*Summary, error) {
	runID := uuid.New()
	log := im.logger.With(zap.Stringer("run_id", runID))
	started := time.Now()

	s := &Summary{RunID: runID, DryRun: im.opts.DryRun}
	log.Info("import started", zap.Bool("dry_run", im.opts.DryRun), zap.Int("batch_size", im.opts.BatchSize))

	err := database.WithTx(ctx, im.db, func(tx *sqlx.Tx) error {
		store := im.newStore(tx, im.opts.BatchSize)
		r := &run{
			log:      log,
			resolver: usecase.NewResolver(store.Catalog, log),
			norm:     Normalizer{DefaultCategory: im.opts.DefaultCategory, DefaultBrand: im.opts.DefaultBrand},
			skipped:  im.skipped,
			summary:  s,
		}

		start := time.Now()
		err := r.readAll(ctx, src)
		im.metrics.RecordStep("read", err, time.Since(start))
		if err != nil {
			return err
		}

		res, err := NewWriter(store.Products, store.Ledger, log, im.metrics).Write(ctx, &r.batch)
		if err != nil {
			return err
		}
		s.apply(res)
		stats := r.resolver.Stats()
		s.LookupHits, s.LookupMisses = stats.Hits, stats.Misses

		if im.opts.DryRun {
			return errDryRun
		}
		return nil
	})

	s.RowsProcessed = src.Read()
	s.RowsSkipped = src.Skipped()
	s.SkipReasons = im.skipped.Reasons()
	s.Duration = time.Since(started)
	im.metrics.RecordStep("import", err, s.Duration)

	if err != nil && !errors.Is(err, errDryRun) {
		log.Error("import failed, transaction rolled back", zap.Int("rows", s.RowsProcessed), zap.Error(err))
		return s, fmt.Errorf("import: %w", err)
	}

	im.metrics.RecordRows("processed", s.RowsProcessed)
	im.metrics.RecordRows("skipped", s.RowsSkipped)
	im.metrics.RecordRows("rejected", s.RowsRejected)
	log.Info("import completed", s.Fields()...)
	return s, nil
}

// run is the state of one import pass over the source.
type run struct {
	log      logger.ZapLogger
	resolver catalog.Resolver
	norm     Normalizer
	skipped  *skiplog.Log
	summary  *Summary
	batch    Batch
}

func (r *run) readAll(ctx context.Context, src rowsource.Source) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}

		rec, err := r.norm.Normalize(row)
		if errors.Is(err, ErrRejectedRow) {
			r.summary.RowsRejected++
			r.log.Warn("row skipped: empty or N/A product name", zap.Int("row", row.Line))
			if err := r.skipped.Add("empty_name", row.Line, row.Get(ColName)); err != nil {
				return fmt.Errorf("skip log: %w", err)
			}
			continue
		}
		if err != nil {
			return err
		}

		r.log.Info("processing row", zap.Int("row", rec.Line), zap.String("name", rec.Name))
		for _, w := range rec.Warnings {
			r.summary.Warnings++
			r.log.Warn("row warning", zap.Int("row", rec.Line), zap.String("reason", w))
		}

		if err := r.add(ctx, rec); err != nil {
			return fmt.Errorf("row %d: %w", rec.Line, err)
		}
	}
}

// add resolves the lookups of rec and queues its records.
func (r *run) add(ctx context.Context, rec Record) error {
	categoryID, err := r.resolver.Category(ctx, rec.Category)
	if err != nil {
		return err
	}
	var subcategoryID *uuid.UUID
	if rec.Subcategory != "" {
		id, err := r.resolver.Subcategory(ctx, categoryID, rec.Subcategory)
		if err != nil {
			return err
		}
		subcategoryID = &id
	}
	brandID, err := r.resolver.Brand(ctx, rec.Brand)
	if err != nil {
		return err
	}
	var supplierID *uuid.UUID
	if rec.Supplier != "" {
		id, err := r.resolver.Supplier(ctx, rec.Supplier)
		if err != nil {
			return err
		}
		supplierID = &id
	}

	var valueIDs []uuid.UUID
	if rec.Size != "" {
		id, err := r.resolver.AttributeValue(ctx, model.AttributeSize, rec.Size)
		if err != nil {
			return err
		}
		valueIDs = append(valueIDs, id)
	}
	for _, c := range rec.Colors {
		id, err := r.resolver.AttributeValue(ctx, model.AttributeColor, c)
		if err != nil {
			return err
		}
		valueIDs = append(valueIDs, id)
	}

	sku := rec.SKU
	p := r.batch.AddProduct(model.Product{
		Name:          rec.Name,
		Description:   optional(rec.Description),
		SKU:           &sku,
		Condition:     rec.Condition,
		Status:        rec.Status,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		BrandID:       brandID,
	})
	v := r.batch.AddVariation(p, model.Variation{
		SKU:       &sku,
		SalePrice: rec.SalePrice,
		Stock:     rec.Stock,
	})
	r.batch.AddLinks(v, valueIDs)
	r.batch.AddMeasurement(v, model.Measurement{
		LengthCm:    rec.Measurements.Length,
		WidthCm:     rec.Measurements.Width,
		HeightCm:    rec.Measurements.Height,
		WeightGrams: rec.Measurements.Weight,
	})

	notes := optional(rec.Notes)
	if rec.Purchase != nil {
		r.batch.AddPurchase(v, model.Purchase{
			Quantity:    1,
			UnitCost:    rec.Purchase.Amount,
			SupplierID:  supplierID,
			PurchasedOn: rec.Purchase.On,
			Notes:       notes,
		})
	}
	if rec.Sale != nil {
		r.batch.AddSale(v, model.Sale{
			Quantity:   1,
			TotalPrice: rec.Sale.Amount,
			SoldOn:     rec.Sale.On,
			Notes:      notes,
		})
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
