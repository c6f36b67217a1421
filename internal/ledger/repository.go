package ledger

import (
	"context"

	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Bulk writes, conflict tolerant. The returned sets hold persisted IDs.
	InsertPurchases(ctx context.Context, purchases []model.Purchase) (map[uuid.UUID]struct{}, error)
	InsertSales(ctx context.Context, sales []model.Sale) (map[uuid.UUID]struct{}, error)

	// Accounts
	FindAccount(ctx context.Context, name string) (*model.Account, error)
	EnsureAccount(ctx context.Context, name string) error

	// Debts are maintained outside the loader; only their totals are read.
	OpenDebtTotal(ctx context.Context, kind model.DebtKind) (decimal.Decimal, error)

	// Aggregates
	PurchaseTotals(ctx context.Context) (units int, spend decimal.Decimal, err error)
	SaleTotals(ctx context.Context) (units int, revenue decimal.Decimal, err error)
}
