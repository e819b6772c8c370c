package app

import (
	"github.com/shopspring/decimal"

	"retail-backoffice/internal/core"
)

// SaleResult is returned by sale lifecycle operations.
type SaleResult struct {
	Sale *core.Sale `json:"sale"`
}

// SaleListResult is returned by ListSales.
type SaleListResult struct {
	Sales []core.Sale `json:"sales"`
}

// RecoveryResult is returned by ListDebtors.
type RecoveryResult struct {
	Debtors []core.Debtor       `json:"debtors"`
	Stats   *core.RecoveryStats `json:"stats"`
}

// ExpenseListResult is returned by ListExpenses.
type ExpenseListResult struct {
	Expenses    []core.Expense  `json:"expenses"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
