package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-inventory-loader/internal/database"
	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB        sqlx.ExtContext
	ChunkSize int
}

func NewPGRepository(db sqlx.ExtContext, chunkSize int) *PGRepository {
	return &PGRepository{DB: db, ChunkSize: chunkSize}
}

var (
	purchaseColumns = []string{"id", "variation_id", "quantity", "unit_cost", "supplier_id", "purchased_on", "notes"}
	saleColumns     = []string{"id", "variation_id", "quantity", "total_price", "sold_on", "notes"}
)

func (r *PGRepository) InsertPurchases(ctx context.Context, purchases []model.Purchase) (map[uuid.UUID]struct{}, error) {
	rows := make([][]any, len(purchases))
	for i, p := range purchases {
		rows[i] = []any{p.ID, p.VariationID, p.Quantity, p.UnitCost, p.SupplierID, p.PurchasedOn, p.Notes}
	}
	return database.InsertIgnoreConflicts(ctx, r.DB, "purchases", purchaseColumns, rows, r.ChunkSize)
}

func (r *PGRepository) InsertSales(ctx context.Context, sales []model.Sale) (map[uuid.UUID]struct{}, error) {
	rows := make([][]any, len(sales))
	for i, s := range sales {
		rows[i] = []any{s.ID, s.VariationID, s.Quantity, s.TotalPrice, s.SoldOn, s.Notes}
	}
	return database.InsertIgnoreConflicts(ctx, r.DB, "sales", saleColumns, rows, r.ChunkSize)
}

func (r *PGRepository) FindAccount(ctx context.Context, name string) (*model.Account, error) {
	var acc model.Account
	query := r.DB.Rebind(`SELECT id, name, balance FROM accounts WHERE name = ? LIMIT 1`)
	err := sqlx.GetContext(ctx, r.DB, &acc, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &acc, nil
}

func (r *PGRepository) EnsureAccount(ctx context.Context, name string) error {
	query := r.DB.Rebind(`INSERT INTO accounts (id, name, balance) VALUES (?, ?, 0) ON CONFLICT DO NOTHING`)
	_, err := r.DB.ExecContext(ctx, query, uuid.New(), name)
	return err
}

func (r *PGRepository) OpenDebtTotal(ctx context.Context, kind model.DebtKind) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := r.DB.Rebind(`SELECT COALESCE(SUM(amount), 0) FROM debts WHERE kind = ? AND is_paid = ?`)
	if err := sqlx.GetContext(ctx, r.DB, &total, query, string(kind), false); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s debts: %w", kind, err)
	}
	return total, nil
}

type totals struct {
	Units  int             `db:"units"`
	Amount decimal.Decimal `db:"amount"`
}

func (r *PGRepository) PurchaseTotals(ctx context.Context) (int, decimal.Decimal, error) {
	var t totals
	query := `SELECT COALESCE(SUM(quantity), 0) AS units, COALESCE(SUM(quantity * unit_cost), 0) AS amount FROM purchases`
	if err := sqlx.GetContext(ctx, r.DB, &t, query); err != nil {
		return 0, decimal.Zero, fmt.Errorf("sum purchases: %w", err)
	}
	return t.Units, t.Amount, nil
}

func (r *PGRepository) SaleTotals(ctx context.Context) (int, decimal.Decimal, error) {
	var t totals
	query := `SELECT COALESCE(SUM(quantity), 0) AS units, COALESCE(SUM(total_price), 0) AS amount FROM sales`
	if err := sqlx.GetContext(ctx, r.DB, &t, query); err != nil {
		return 0, decimal.Zero, fmt.Errorf("sum sales: %w", err)
	}
	return t.Units, t.Amount, nil
}
