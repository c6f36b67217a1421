package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	StatusAvailable ProductStatus = "Disponible"
	StatusSold      ProductStatus = "Vendido"
	StatusReserved  ProductStatus = "Reservado"
)

const (
	ConditionNew     = "Nuevo"
	ConditionUsed    = "Usado"
	ConditionDamaged = "Averiado"
)

// Column limits shared by the importer and the schema.
const (
	MaxNameLen        = 100
	MaxProductNameLen = 255
	MaxSKULen         = 50
	MaxConditionLen   = 50
	MaxNotesLen       = 255
)

// MaxAmount is the exclusive upper bound of a NUMERIC(10,2) column.
var MaxAmount = decimal.New(1, 8)

type Product struct {
	ID            uuid.UUID     `db:"id"`
	Name          string        `db:"name"`
	Description   *string       `db:"description"`
	SKU           *string       `db:"sku"`
	Condition     string        `db:"condition"`
	Status        ProductStatus `db:"status"`
	CategoryID    uuid.UUID     `db:"category_id"`
	SubcategoryID *uuid.UUID    `db:"subcategory_id"`
	BrandID       uuid.UUID     `db:"brand_id"`
}

type Variation struct {
	ID        uuid.UUID       `db:"id"`
	ProductID uuid.UUID       `db:"product_id"`
	SKU       *string         `db:"sku"`
	SalePrice decimal.Decimal `db:"sale_price"`
	Stock     int             `db:"stock"`
}

// Measurement shares its identity with the owning variation.
type Measurement struct {
	VariationID uuid.UUID       `db:"variation_id"`
	WeightGrams decimal.Decimal `db:"weight_g"`
	HeightCm    decimal.Decimal `db:"height_cm"`
	WidthCm     decimal.Decimal `db:"width_cm"`
	LengthCm    decimal.Decimal `db:"length_cm"`
}

type VariationAttributes struct {
	VariationID uuid.UUID
	ValueIDs    []uuid.UUID
}
