package model

import "github.com/google/uuid"

const (
	AttributeSize  = "Talla"
	AttributeColor = "Color"
)

// Lookup tables are created at most once per natural key and never mutated by the importer.

type Category struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
}

type Subcategory struct {
	ID         uuid.UUID `db:"id"`
	CategoryID uuid.UUID `db:"category_id"`
	Name       string    `db:"name"`
}

type Brand struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

type Supplier struct {
	ID      uuid.UUID `db:"id"`
	Name    string    `db:"name"`
	Contact *string   `db:"contact"`
	Email   *string   `db:"email"`
}

type Attribute struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

type AttributeValue struct {
	ID          uuid.UUID `db:"id"`
	AttributeID uuid.UUID `db:"attribute_id"`
	Value       string    `db:"value"`
}
