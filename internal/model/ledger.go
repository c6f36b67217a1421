package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Purchase struct {
	ID          uuid.UUID       `db:"id"`
	VariationID *uuid.UUID      `db:"variation_id"`
	Quantity    int             `db:"quantity"`
	UnitCost    decimal.Decimal `db:"unit_cost"`
	SupplierID  *uuid.UUID      `db:"supplier_id"`
	PurchasedOn time.Time       `db:"purchased_on"`
	Notes       *string         `db:"notes"`
}

type Sale struct {
	ID          uuid.UUID       `db:"id"`
	VariationID *uuid.UUID      `db:"variation_id"`
	Quantity    int             `db:"quantity"`
	TotalPrice  decimal.Decimal `db:"total_price"`
	SoldOn      time.Time       `db:"sold_on"`
	Notes       *string         `db:"notes"`
}

const CashAccountName = "Efectivo"

type Account struct {
	ID      uuid.UUID       `db:"id"`
	Name    string          `db:"name"`
	Balance decimal.Decimal `db:"balance"`
}

type DebtKind string

const (
	DebtReceivable DebtKind = "Por Cobrar"
	DebtPayable    DebtKind = "Por Pagar"
)

type Debt struct {
	ID          uuid.UUID       `db:"id"`
	Kind        DebtKind        `db:"kind"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	CreatedOn   time.Time       `db:"created_on"`
	DueOn       *time.Time      `db:"due_on"`
	IsPaid      bool            `db:"is_paid"`
}
