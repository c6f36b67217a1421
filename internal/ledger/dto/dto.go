package dto

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BusinessSummary is the dashboard view of the books.
type BusinessSummary struct {
	CashBalance decimal.Decimal
	Receivables decimal.Decimal
	Payables    decimal.Decimal
	// NetValue = CashBalance + Receivables - Payables
	NetValue decimal.Decimal

	UnitsPurchased int
	UnitsSold      int
	UnitsInStock   int
	PurchaseSpend  decimal.Decimal
	SalesRevenue   decimal.Decimal
}

func (s BusinessSummary) String() string {
	return fmt.Sprintf(
		"Efectivo: %s | Por cobrar: %s | Por pagar: %s | Valor neto: %s | "+
			"Unidades compradas: %d | Unidades vendidas: %d | En stock: %d | Gasto: %s | Ingresos: %s",
		s.CashBalance.StringFixed(2), s.Receivables.StringFixed(2), s.Payables.StringFixed(2),
		s.NetValue.StringFixed(2), s.UnitsPurchased, s.UnitsSold, s.UnitsInStock,
		s.PurchaseSpend.StringFixed(2), s.SalesRevenue.StringFixed(2),
	)
}
