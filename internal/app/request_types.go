package app

import (
	"time"

	"github.com/shopspring/decimal"

	"retail-backoffice/internal/core"
)

// SaleRequest is the input for recording or editing a sale. Totals are
// recomputed server-side from the items; any client-supplied totals are
// ignored.
type SaleRequest struct {
	CustomerName   string          `json:"customerName"`
	CustomerPhone  string          `json:"customerPhone"`
	Items          []core.SaleItem `json:"items"`
	Others         decimal.Decimal `json:"others"`
	Discount       decimal.Decimal `json:"discount"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	InvoiceDate    *time.Time      `json:"invoiceDate,omitempty"`
	SalesmanID     *int            `json:"salesmanId,omitempty"`
}

// ListSalesRequest narrows ListSales. Filter is one of the named date
// filters; From/To are YYYY-MM-DD and only used with "custom".
type ListSalesRequest struct {
	CustomerName string
	SalesmanID   *int
	Filter       string
	From         string
	To           string
}

// AdjustBalanceRequest targets one identity's resolved balance.
type AdjustBalanceRequest struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Balance decimal.Decimal `json:"balance"`
}

// RegisterAtBalanceRequest registers a normal customer at a target balance.
type RegisterAtBalanceRequest struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	City    string          `json:"city"`
	Balance decimal.Decimal `json:"balance"`
}
