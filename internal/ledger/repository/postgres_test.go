package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-loader/internal/ledger/repository"
	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/fekuna/omnipos-inventory-loader/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertPurchasesAndSales_Totals(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	repo := repository.NewPGRepository(db, 0)
	ctx := context.Background()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	purchases := []model.Purchase{
		{ID: uuid.New(), Quantity: 1, UnitCost: decimal.RequireFromString("10.50"), PurchasedOn: day},
		{ID: uuid.New(), Quantity: 2, UnitCost: decimal.RequireFromString("4"), PurchasedOn: day},
	}
	got, err := repo.InsertPurchases(ctx, purchases)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	note := "pagado en efectivo"
	got, err = repo.InsertSales(ctx, []model.Sale{
		{ID: uuid.New(), Quantity: 1, TotalPrice: decimal.RequireFromString("25"), SoldOn: day, Notes: &note},
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	units, spend, err := repo.PurchaseTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, units)
	assert.True(t, spend.Equal(decimal.RequireFromString("18.5")), spend.String())

	units, revenue, err := repo.SaleTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, units)
	assert.True(t, revenue.Equal(decimal.NewFromInt(25)), revenue.String())
}

func TestInsertPurchases_DuplicateIDDropped(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	repo := repository.NewPGRepository(db, 0)
	ctx := context.Background()

	p := model.Purchase{ID: uuid.New(), Quantity: 1, UnitCost: decimal.NewFromInt(1), PurchasedOn: time.Now()}
	_, err := repo.InsertPurchases(ctx, []model.Purchase{p})
	require.NoError(t, err)

	got, err := repo.InsertPurchases(ctx, []model.Purchase{p})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, testutil.Count(t, db, "purchases"))
}

func TestAccounts(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	repo := repository.NewPGRepository(db, 0)
	ctx := context.Background()

	acc, err := repo.FindAccount(ctx, model.CashAccountName)
	require.NoError(t, err)
	assert.Nil(t, acc)

	require.NoError(t, repo.EnsureAccount(ctx, model.CashAccountName))
	require.NoError(t, repo.EnsureAccount(ctx, model.CashAccountName))
	assert.Equal(t, 1, testutil.Count(t, db, "accounts"))

	acc, err = repo.FindAccount(ctx, model.CashAccountName)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.True(t, acc.Balance.IsZero())
}

func TestOpenDebtTotal_IgnoresPaid(t *testing.T) {
	t.Parallel()

	db := testutil.NewSQLiteDB(t)
	repo := repository.NewPGRepository(db, 0)
	ctx := context.Background()
	now := time.Now()

	debts := []model.Debt{
		{ID: uuid.New(), Kind: model.DebtReceivable, Amount: decimal.NewFromInt(100), Description: "cliente", CreatedOn: now},
		{ID: uuid.New(), Kind: model.DebtReceivable, Amount: decimal.NewFromInt(40), Description: "cliente", CreatedOn: now, IsPaid: true},
		{ID: uuid.New(), Kind: model.DebtPayable, Amount: decimal.NewFromInt(30), Description: "proveedor", CreatedOn: now},
	}
	for _, d := range debts {
		testutil.InsertDebt(t, db, d)
	}

	receivable, err := repo.OpenDebtTotal(ctx, model.DebtReceivable)
	require.NoError(t, err)
	assert.True(t, receivable.Equal(decimal.NewFromInt(100)), receivable.String())

	payable, err := repo.OpenDebtTotal(ctx, model.DebtPayable)
	require.NoError(t, err)
	assert.True(t, payable.Equal(decimal.NewFromInt(30)), payable.String())
}
