package importer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-inventory-loader/internal/importer"
	"github.com/fekuna/omnipos-inventory-loader/internal/ledger"
	"github.com/fekuna/omnipos-inventory-loader/internal/logger"
	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/fekuna/omnipos-inventory-loader/internal/rowsource"
	"github.com/fekuna/omnipos-inventory-loader/internal/skiplog"
	"github.com/fekuna/omnipos-inventory-loader/internal/testutil"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Nombre Producto,Descripscion,Condicion,Stock,Categoria,Marca,Proveedor,ID,Precio Venta,Talla,Color,Fecha Compra,Precio Compra,Notas,Fecha Venta\n"

func csvSource(t *testing.T, lines ...string) rowsource.Source {
	t.Helper()

	src, err := rowsource.NewCSV(strings.NewReader(header+strings.Join(lines, "\n")+"\n"), "utf-8")
	require.NoError(t, err)
	return src
}

func run(t *testing.T, db *sqlx.DB, opts importer.Options, src rowsource.Source) *importer.Summary {
	t.Helper()

	s, err := importer.New(importer.Deps{DB: db}, opts).Run(context.Background(), src)
	require.NoError(t, err)
	return s
}

func TestRun_EndToEnd_RejectedAndDuplicateSKU(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	src := csvSource(t,
		`Bota,Cuero,Usado,1,2.5 Running,Nike,Deportes SA,SKU-1,"19,99","42`+"\n"+`Longitud del pie = 27.5 cm","Rojo, Azul",2024-01-10,"10,50",nota,2024-02-01`,
		`N/A,,,3,2.5 Running,Nike,,SKU-2,5,,,,,,`,
		`Bota copia,,,4,2.5 Running,Nike,,SKU-1,20,43,Verde,2024-01-11,11,,2024-02-02`,
	)

	s := run(t, db, importer.Options{}, src)

	assert.Equal(t, 3, s.RowsProcessed)
	assert.Equal(t, 1, s.RowsRejected)
	assert.Equal(t, 1, s.Products.Inserted)
	assert.Equal(t, 1, s.Products.Dropped)
	assert.Equal(t, 1, s.Variations.Inserted)
	assert.Equal(t, 1, s.Variations.Orphaned)

	assert.Equal(t, 1, testutil.Count(t, db, "products"))
	assert.Equal(t, 1, testutil.Count(t, db, "variations"))
	assert.Equal(t, 1, testutil.Count(t, db, "measurements"))
	assert.Equal(t, 1, testutil.Count(t, db, "purchases"))
	assert.Equal(t, 1, testutil.Count(t, db, "sales"))
	assert.Equal(t, 3, testutil.Count(t, db, "variation_attribute_values"), "size 42 plus two colors")

	var p model.Product
	require.NoError(t, db.Get(&p, "SELECT * FROM products"))
	assert.Equal(t, "Bota", p.Name)
	assert.Equal(t, model.StatusAvailable, p.Status)
	assert.Equal(t, model.ConditionUsed, p.Condition)

	var length string
	require.NoError(t, db.Get(&length, "SELECT CAST(length_cm AS TEXT) FROM measurements"))
	assert.Equal(t, "27.5", length)

	assert.Contains(t, s.String(), "3 filas procesadas")
}

func TestRun_RejectedRowsCreateNothing(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	s := run(t, db, importer.Options{}, csvSource(t,
		`N/A,,,1,2.5 Running,Nike,Prov,X,5,42,Rojo,2024-01-01,3,,2024-01-02`,
		`,,,1,Accesorios,Nike,Prov,Y,5,42,Rojo,2024-01-01,3,,2024-01-02`,
	))

	assert.Equal(t, 2, s.RowsRejected)
	for _, table := range []string{"products", "variations", "measurements", "purchases", "sales", "categories", "brands"} {
		assert.Zero(t, testutil.Count(t, db, table), table)
	}
}

func TestRun_CategoryDedupRegardlessOfOrder(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	s := run(t, db, importer.Options{}, csvSource(t,
		`A,,,1,2.5 Running,Nike,,A,1,,,,,,`,
		`B,,,1,Accesorios,Nike,,B,1,,,,,,`,
		`C,,,1,2.7 Trail,Adidas,,C,1,,,,,,`,
		`D,,,1,2.5 Running,Nike,,D,1,,,,,,`,
	))

	assert.Equal(t, 4, s.Products.Inserted)
	assert.Equal(t, 2, testutil.Count(t, db, "categories"), `"2" and "Accesorios"`)
	assert.Equal(t, 3, testutil.Count(t, db, "subcategories"))
	assert.Equal(t, 2, testutil.Count(t, db, "brands"))
	assert.Greater(t, s.LookupHits, 0)

	var names []string
	require.NoError(t, db.Select(&names, "SELECT name FROM categories ORDER BY name"))
	assert.Equal(t, []string{"2", "Accesorios"}, names)
}

func TestRun_StatusDerivation(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	run(t, db, importer.Options{}, csvSource(t,
		`Cero,,,0,X,M,,S0,1,,,,,,`,
		`Vacio,,,,X,M,,S1,1,,,,,,`,
		`Cinco,,,5,X,M,,S5,1,,,,,,`,
	))

	var statuses []string
	require.NoError(t, db.Select(&statuses, "SELECT status FROM products ORDER BY sku"))
	assert.Equal(t, []string{"Vendido", "Vendido", "Disponible"}, statuses)
}

func TestRun_SecondRunDropsWholeTreeOnConflict(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	line := `Bota,,,1,2.5 Running,Nike,Prov,SKU-1,10,42,Rojo,2024-01-10,5,,2024-02-01`

	run(t, db, importer.Options{}, csvSource(t, line))
	s := run(t, db, importer.Options{}, csvSource(t, line))

	assert.Equal(t, 1, s.Products.Dropped)
	assert.Equal(t, 1, s.Variations.Orphaned)
	assert.Equal(t, 1, s.Measurements.Orphaned)
	assert.Equal(t, 1, s.Purchases.Orphaned)
	assert.Equal(t, 1, s.Sales.Orphaned)

	assert.Equal(t, 1, testutil.Count(t, db, "products"))
	assert.Equal(t, 1, testutil.Count(t, db, "variations"))
	assert.Equal(t, 1, testutil.Count(t, db, "purchases"))
	assert.Equal(t, 1, testutil.Count(t, db, "sales"))
	assert.Equal(t, 1, testutil.Count(t, db, "categories"))
}

func TestRun_DryRunRollsBack(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	s := run(t, db, importer.Options{DryRun: true}, csvSource(t,
		`Bota,,,1,2.5 Running,Nike,,SKU-1,10,42,Rojo,,,,`,
	))

	assert.True(t, s.DryRun)
	assert.Equal(t, 1, s.Products.Inserted)
	assert.Zero(t, testutil.Count(t, db, "products"))
	assert.Zero(t, testutil.Count(t, db, "categories"))
	assert.Contains(t, s.String(), "Simulación")
}

// failingSource yields rows from inner and fails once n rows were returned.
type failingSource struct {
	rowsource.Source
	n int
}

func (f *failingSource) Next() (rowsource.Row, error) {
	if f.n == 0 {
		return rowsource.Row{}, errors.New("disk read error")
	}
	f.n--
	return f.Source.Next()
}

func TestRun_FailureOnThirdRowRollsBackEverything(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	src := &failingSource{
		Source: csvSource(t,
			`A,,,1,2.5 Running,Nike,,A,1,,,,,,`,
			`B,,,1,2.5 Running,Nike,,B,1,,,,,,`,
			`C,,,1,2.5 Running,Nike,,C,1,,,,,,`,
		),
		n: 2,
	}

	s, err := importer.New(importer.Deps{DB: db}, importer.Options{}).Run(context.Background(), src)
	require.Error(t, err)
	require.NotNil(t, s)

	assert.Zero(t, testutil.Count(t, db, "products"))
	assert.Zero(t, testutil.Count(t, db, "categories"))
	assert.Zero(t, testutil.Count(t, db, "brands"))
}

type failingLedger struct {
	ledger.Repository
}

func (failingLedger) InsertSales(context.Context, []model.Sale) (map[uuid.UUID]struct{}, error) {
	return nil, errors.New("sales table locked")
}

func TestRun_WriterFailureRollsBackEarlierPhases(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	deps := importer.Deps{
		DB: db,
		NewStore: func(q sqlx.ExtContext, batchSize int) importer.Store {
			s := importer.NewSQLStore(q, batchSize)
			s.Ledger = failingLedger{Repository: s.Ledger}
			return s
		},
	}

	_, err := importer.New(deps, importer.Options{}).Run(context.Background(), csvSource(t,
		`Bota,,,1,2.5 Running,Nike,,SKU-1,10,42,Rojo,2024-01-10,5,,2024-02-01`,
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sales table locked")

	assert.Zero(t, testutil.Count(t, db, "products"))
	assert.Zero(t, testutil.Count(t, db, "variations"))
	assert.Zero(t, testutil.Count(t, db, "purchases"))
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := importer.New(importer.Deps{DB: db}, importer.Options{}).Run(ctx, csvSource(t, `A,,,1,X,M,,A,1,,,,,,`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestImportFile_MissingFile(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	_, err := importer.New(importer.Deps{DB: db}, importer.Options{}).
		ImportFile(context.Background(), filepath.Join(t.TempDir(), "no-existe.csv"))

	require.Error(t, err)
	assert.ErrorIs(t, err, rowsource.ErrFileNotFound)
}

func TestImportFile_Latin1AndSkipLog(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	path := filepath.Join(t.TempDir(), "datos.csv")
	raw := header + "Zapatilla Ni\xf1o,,,2,Calzado,Marca\xf1a,,Z-1,15,,,,,,\nN/A,,,,,,,,,,,,,,\n,,,,,,,,,,,,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	skipDir := t.TempDir()
	skipped, err := skiplog.Create(skipDir, "skipped.csv")
	require.NoError(t, err)

	im := importer.New(importer.Deps{DB: db, Logger: logger.NewNop(), Skipped: skipped}, importer.Options{Encoding: "latin1"})
	s, err := im.ImportFile(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, skipped.Close())

	assert.Equal(t, path, s.File)
	assert.Equal(t, 3, s.RowsProcessed)
	assert.Equal(t, 1, s.RowsSkipped)
	assert.Equal(t, 1, s.RowsRejected)
	assert.Equal(t, map[string]int{"empty_name": 1}, s.SkipReasons)

	var name string
	require.NoError(t, db.Get(&name, "SELECT name FROM products"))
	assert.Equal(t, "Zapatilla Niño", name)

	log, err := os.ReadFile(filepath.Join(skipDir, "skipped.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "empty_name,2,N/A")
}

func TestRun_ChunkedWrites(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	var lines []string
	for i := 0; i < 25; i++ {
		id := uuid.NewString()[:8]
		lines = append(lines, "P"+id+",,,1,2.5 Running,Nike,,"+id+",1,42,Rojo,,,,")
	}

	s := run(t, db, importer.Options{BatchSize: 4}, csvSource(t, lines...))
	assert.Equal(t, 25, s.Products.Inserted)
	assert.Equal(t, 50, s.AttributeLinks)
	assert.Equal(t, 25, testutil.Count(t, db, "measurements"))
}
