package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Summary reports the outcome of one run.
type Summary struct {
	RunID  uuid.UUID
	File   string
	DryRun bool

	// RowsProcessed counts every data line read, blank ones included.
	RowsProcessed int
	RowsSkipped   int
	RowsRejected  int
	Warnings      int
	// SkipReasons counts rejected rows per reason over the skip log's
	// lifetime.
	SkipReasons map[string]int

	Products       TableCounts
	Variations     TableCounts
	Measurements   TableCounts
	Purchases      TableCounts
	Sales          TableCounts
	AttributeLinks int

	LookupHits   int
	LookupMisses int

	Duration time.Duration
}

func (s *Summary) apply(res WriteResult) {
	s.Products = res.Products
	s.Variations = res.Variations
	s.Measurements = res.Measurements
	s.Purchases = res.Purchases
	s.Sales = res.Sales
	s.AttributeLinks = res.AttributeLinks
}

// Fields renders s as structured log fields.
func (s *Summary) Fields() []zap.Field {
	return []zap.Field{
		zap.String("file", s.File),
		zap.Bool("dry_run", s.DryRun),
		zap.Int("rows_processed", s.RowsProcessed),
		zap.Int("rows_skipped", s.RowsSkipped),
		zap.Int("rows_rejected", s.RowsRejected),
		zap.Int("warnings", s.Warnings),
		zap.Any("skip_reasons", s.SkipReasons),
		zap.Int("products", s.Products.Inserted),
		zap.Int("products_dropped", s.Products.Dropped),
		zap.Int("variations", s.Variations.Inserted),
		zap.Int("measurements", s.Measurements.Inserted),
		zap.Int("purchases", s.Purchases.Inserted),
		zap.Int("sales", s.Sales.Inserted),
		zap.Int("attribute_links", s.AttributeLinks),
		zap.Int("lookup_hits", s.LookupHits),
		zap.Int("lookup_misses", s.LookupMisses),
		zap.Duration("duration", s.Duration),
	}
}

func (s *Summary) String() string {
	prefix := "Importación completada"
	if s.DryRun {
		prefix = "Simulación completada (sin cambios)"
	}
	return fmt.Sprintf(
		"%s: %d filas procesadas, %d omitidas, %d productos, %d variaciones, %d compras, %d ventas (%d productos en conflicto)",
		prefix, s.RowsProcessed, s.RowsRejected+s.RowsSkipped,
		s.Products.Inserted, s.Variations.Inserted, s.Purchases.Inserted, s.Sales.Inserted,
		s.Products.Dropped,
	)
}
