package importer

import (
	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/google/uuid"
)

// Batch holds every record of a run until the write phase. Children point at
// their parent by index into the parent slice; an index only becomes a
// foreign key once the writer knows the parent was persisted.
type Batch struct {
	Products     []model.Product
	Variations   []PendingVariation
	Measurements []PendingMeasurement
	Purchases    []PendingPurchase
	Sales        []PendingSale
	Links        []PendingLinks
}

type PendingVariation struct {
	Product int
	model.Variation
}

type PendingMeasurement struct {
	Variation int
	model.Measurement
}

type PendingPurchase struct {
	Variation int
	model.Purchase
}

type PendingSale struct {
	Variation int
	model.Sale
}

type PendingLinks struct {
	Variation int
	ValueIDs  []uuid.UUID
}

// AddProduct assigns p an identity and returns its index.
func (b *Batch) AddProduct(p model.Product) int {
	p.ID = uuid.New()
	b.Products = append(b.Products, p)
	return len(b.Products) - 1
}

// AddVariation assigns v an identity and returns its index.
func (b *Batch) AddVariation(product int, v model.Variation) int {
	v.ID = uuid.New()
	b.Variations = append(b.Variations, PendingVariation{Product: product, Variation: v})
	return len(b.Variations) - 1
}

func (b *Batch) AddMeasurement(variation int, m model.Measurement) {
	b.Measurements = append(b.Measurements, PendingMeasurement{Variation: variation, Measurement: m})
}

func (b *Batch) AddPurchase(variation int, p model.Purchase) {
	p.ID = uuid.New()
	b.Purchases = append(b.Purchases, PendingPurchase{Variation: variation, Purchase: p})
}

func (b *Batch) AddSale(variation int, s model.Sale) {
	s.ID = uuid.New()
	b.Sales = append(b.Sales, PendingSale{Variation: variation, Sale: s})
}

// AddLinks records the attribute values of a variation. Empty lists are
// kept so the link step still replaces prior associations.
func (b *Batch) AddLinks(variation int, valueIDs []uuid.UUID) {
	b.Links = append(b.Links, PendingLinks{Variation: variation, ValueIDs: valueIDs})
}

func (b *Batch) Len() int {
	return len(b.Products)
}
