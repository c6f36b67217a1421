package usecase

import (
	"context"

	"github.com/fekuna/omnipos-inventory-loader/internal/ledger"
	"github.com/fekuna/omnipos-inventory-loader/internal/ledger/dto"
	"github.com/fekuna/omnipos-inventory-loader/internal/logger"
	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/fekuna/omnipos-inventory-loader/internal/product"
	"go.uber.org/zap"
)

type ledgerUseCase struct {
	repo     ledger.Repository
	products product.Repository
	logger   logger.ZapLogger
}

func NewLedgerUseCase(repo ledger.Repository, products product.Repository, log logger.ZapLogger) ledger.UseCase {
	return &ledgerUseCase{
		repo:     repo,
		products: products,
		logger:   log,
	}
}

func (uc *ledgerUseCase) Summary(ctx context.Context) (*dto.BusinessSummary, error) {
	var s dto.BusinessSummary

	// A missing cash account reads as a zero balance.
	acc, err := uc.repo.FindAccount(ctx, model.CashAccountName)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		s.CashBalance = acc.Balance
	} else {
		uc.logger.Warn("cash account not found", zap.String("account", model.CashAccountName))
	}

	if s.Receivables, err = uc.repo.OpenDebtTotal(ctx, model.DebtReceivable); err != nil {
		return nil, err
	}
	if s.Payables, err = uc.repo.OpenDebtTotal(ctx, model.DebtPayable); err != nil {
		return nil, err
	}

	if s.UnitsPurchased, s.PurchaseSpend, err = uc.repo.PurchaseTotals(ctx); err != nil {
		return nil, err
	}
	if s.UnitsSold, s.SalesRevenue, err = uc.repo.SaleTotals(ctx); err != nil {
		return nil, err
	}
	if s.UnitsInStock, err = uc.products.UnitsInStock(ctx); err != nil {
		return nil, err
	}

	s.CashBalance = s.CashBalance.Round(2)
	s.Receivables = s.Receivables.Round(2)
	s.Payables = s.Payables.Round(2)
	s.PurchaseSpend = s.PurchaseSpend.Round(2)
	s.SalesRevenue = s.SalesRevenue.Round(2)
	s.NetValue = s.CashBalance.Add(s.Receivables).Sub(s.Payables)

	uc.logger.Debug("business summary computed", zap.Stringer("net_value", s.NetValue))
	return &s, nil
}
