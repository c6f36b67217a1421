package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/fekuna/omnipos-inventory-loader/internal/rowsource"
	"github.com/shopspring/decimal"
)

// Input columns.
const (
	ColName          = "Nombre Producto"
	ColDescription   = "Descripscion"
	ColCondition     = "Condicion"
	ColStock         = "Stock"
	ColCategory      = "Categoria"
	ColBrand         = "Marca"
	ColSupplier      = "Proveedor"
	ColID            = "ID"
	ColSalePrice     = "Precio Venta"
	ColSize          = "Talla"
	ColColor         = "Color"
	ColPurchaseDate  = "Fecha Compra"
	ColPurchasePrice = "Precio Compra"
	ColNotes         = "Notas"
	ColSaleDate      = "Fecha Venta"
)

const (
	placeholderName = "N/A"
	dateLayout      = "2006-01-02"

	DefaultCategory = "Sin categoría"
	DefaultBrand    = "Sin marca"
)

// ErrRejectedRow marks a row that produces no entities at all.
var ErrRejectedRow = errors.New("row rejected")

var errOutOfRange = errors.New("out of range")

var categoryPattern = regexp.MustCompile(`^(\d+)\.(\d+)\s*(.*)`)

// Record is one input row after cleaning. Nothing in it has been resolved
// against the store yet.
type Record struct {
	Line int

	Name        string
	Description string
	Condition   string
	Status      model.ProductStatus
	SKU         string

	Category    string
	Subcategory string
	Brand       string
	Supplier    string

	SalePrice decimal.Decimal
	Stock     int

	Size         string
	Colors       []string
	Measurements Dimensions

	Purchase *DatedAmount
	Sale     *DatedAmount
	Notes    string

	// Warnings lists values discarded as out of range and derived records
	// that were dropped for this row.
	Warnings []string
}

// DatedAmount is the date and money value of a purchase or sale.
type DatedAmount struct {
	On     time.Time
	Amount decimal.Decimal
}

// Normalizer cleans raw rows. Empty category and brand names fall back to
// the configured defaults.
type Normalizer struct {
	DefaultCategory string
	DefaultBrand    string
}

// Normalize returns ErrRejectedRow when the product name is empty or the
// "N/A" placeholder. Every other problem becomes a default value or a
// warning on the record.
func (n Normalizer) Normalize(row rowsource.Row) (Record, error) {
	name := strings.TrimSpace(row.Get(ColName))
	if name == "" || name == placeholderName {
		return Record{}, fmt.Errorf("%w: line %d: empty or placeholder name %q", ErrRejectedRow, row.Line, name)
	}

	rec := Record{
		Line:        row.Line,
		Name:        truncate(name, model.MaxProductNameLen),
		Description: strings.TrimSpace(row.Get(ColDescription)),
		Condition:   truncate(strings.TrimSpace(row.Get(ColCondition)), model.MaxConditionLen),
		Status:      DeriveStatus(row.Get(ColStock)),
		SalePrice:   ParsePrice(row.Get(ColSalePrice)),
		Stock:       ParseStock(row.Get(ColStock)),
		Brand:       truncate(strings.TrimSpace(row.Get(ColBrand)), model.MaxNameLen),
		Supplier:    truncate(strings.TrimSpace(row.Get(ColSupplier)), model.MaxNameLen),
		Notes:       truncate(row.Get(ColNotes), model.MaxNotesLen),
	}
	if rec.Condition == "" {
		rec.Condition = model.ConditionNew
	}
	if _, err := parseDecimal(row.Get(ColSalePrice)); errors.Is(err, errOutOfRange) {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("sale price: %v", err))
	}
	if _, err := parseStock(row.Get(ColStock)); errors.Is(err, strconv.ErrRange) {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("stock: %q out of range", strings.TrimSpace(row.Get(ColStock))))
	}

	rec.Category, rec.Subcategory = SplitCategory(row.Get(ColCategory))
	if rec.Category == "" {
		rec.Category = orDefault(n.DefaultCategory, DefaultCategory)
		rec.Subcategory = ""
	}
	if rec.Brand == "" {
		rec.Brand = orDefault(n.DefaultBrand, DefaultBrand)
	}

	sku := strings.TrimSpace(row.Get(ColID))
	if sku == "" {
		sku = name
	}
	rec.SKU = truncate(sku, model.MaxSKULen)

	size := row.Get(ColSize)
	rec.Size = truncate(strings.TrimSpace(firstLine(size)), model.MaxNameLen)
	rec.Colors = SplitColors(row.Get(ColColor))
	rec.Measurements = ExtractMeasurements(size)

	var err error
	rec.Purchase, err = parseDated(row.Get(ColPurchaseDate), row.Get(ColPurchasePrice))
	if err != nil {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("purchase: %v", err))
	}
	rec.Sale, err = parseDated(row.Get(ColSaleDate), row.Get(ColSalePrice))
	if err != nil {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("sale: %v", err))
	}

	return rec, nil
}

// SplitCategory turns "2.5 Running" into ("2", "Running"). A value that
// does not start with "<int>.<int>" is used for both names.
func SplitCategory(raw string) (category, subcategory string) {
	raw = strings.TrimSpace(raw)
	if m := categoryPattern.FindStringSubmatch(raw); m != nil {
		category = m[1]
		subcategory = strings.TrimSpace(m[3])
		if subcategory == "" {
			subcategory = category
		}
	} else {
		category, subcategory = raw, raw
	}
	return truncate(category, model.MaxNameLen), truncate(subcategory, model.MaxNameLen)
}

// ParsePrice accepts a comma as decimal separator. Empty, unparsable or
// out of range input yields zero.
func ParsePrice(raw string) decimal.Decimal {
	d, err := parseDecimal(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseStock yields zero for input that is not a 32-bit integer.
func ParseStock(raw string) int {
	n, err := parseStock(raw)
	if err != nil {
		return 0
	}
	return n
}

func parseStock(raw string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	return int(n), err
}

// DeriveStatus reports sold when the stock that would be stored is zero,
// which includes blank and unparsable values.
func DeriveStatus(rawStock string) model.ProductStatus {
	if ParseStock(rawStock) == 0 {
		return model.StatusSold
	}
	return model.StatusAvailable
}

// SplitColors splits a comma separated list and drops empty entries.
func SplitColors(raw string) []string {
	var out []string
	for _, c := range strings.Split(raw, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, truncate(c, model.MaxNameLen))
		}
	}
	return out
}

// parseDated returns nil, nil when either field is blank.
func parseDated(rawDate, rawAmount string) (*DatedAmount, error) {
	date := strings.TrimSpace(rawDate)
	amount := normalizeNumber(rawAmount)
	if date == "" || amount == "" {
		return nil, nil
	}

	on, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", date)
	}
	d, err := parseDecimal(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	return &DatedAmount{On: on, Amount: d}, nil
}

// parseDecimal rejects values that do not fit a NUMERIC(10,2) column once
// rounded to cents.
func parseDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(normalizeNumber(raw))
	if err != nil {
		return decimal.Zero, err
	}
	if d.Round(2).Abs().GreaterThanOrEqual(model.MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s", errOutOfRange, d)
	}
	return d, nil
}

func normalizeNumber(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
