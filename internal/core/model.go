package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a registered customer: an explicit row in the registry carrying
// an opening balance. Customers that exist only as groupings of sales rows
// ("normal" customers) have no Customer record.
type Customer struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	City           string          `json:"city"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// SaleItem is a single line on an invoice. Description doubles as the join
// key into the product catalog for stock sync.
type SaleItem struct {
	Description string          `json:"desc"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
}

// Sale is one journal entry in the sales journal. Balance is the signed
// receivable delta this sale contributes to its customer's ledger.
type Sale struct {
	ID             int             `json:"id"`
	InvoiceNumber  int             `json:"invoiceNumber"`
	CustomerName   string          `json:"customerName"`
	CustomerPhone  string          `json:"customerPhone"`
	Items          []SaleItem      `json:"items"`
	SubTotal       decimal.Decimal `json:"subTotal"`
	Others         decimal.Decimal `json:"others"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	Balance        decimal.Decimal `json:"balance"`
	InvoiceDate    time.Time       `json:"invoiceDate"`
	SalesmanID     *int            `json:"salesmanId,omitempty"`
	IsAdjustment   bool            `json:"isAdjustment"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Product is a catalog entry. Name is unique and serves as the join key from
// sale items. Remaining is mutated by stock sync and purchasing.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	Remaining     int             `json:"remaining"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Purchase records incoming stock for one product.
type Purchase struct {
	ID           int             `json:"id"`
	ProductID    int             `json:"productId"`
	ProductName  string          `json:"productName"`
	VendorName   string          `json:"vendorName"`
	Quantity     int             `json:"quantity"`
	CostPerItem  decimal.Decimal `json:"costPerItem"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Expense is a single back-office expense entry.
type Expense struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"date"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Salesman is a shop employee whose linked sales accumulate into TotalSales.
type Salesman struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone"`
	SecondaryPhone   string          `json:"secondaryPhone"`
	Address          string          `json:"address"`
	CNIC             string          `json:"cnic"`
	Salary           decimal.Decimal `json:"salary"`
	JoiningDate      *time.Time      `json:"joiningDate,omitempty"`
	TotalSales       decimal.Decimal `json:"totalSales"`
	CommissionEarned decimal.Decimal `json:"commissionEarned"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Vendor is a supplier record.
type Vendor struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is a back-office operator account. The password hash never leaves the
// core package.
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
}

// ComputeTotals recalculates the derived financial fields of a sale from its
// items and charge fields:
//
//	subTotal = Σ(qty * price)
//	total    = subTotal + others - discount
//	balance  = total - receivedAmount
func (s *Sale) ComputeTotals() {
	subTotal := decimal.Zero
	for _, item := range s.Items {
		subTotal = subTotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	s.SubTotal = subTotal
	s.Total = subTotal.Add(s.Others).Sub(s.Discount)
	s.Balance = s.Total.Sub(s.ReceivedAmount)
}

// ValidateTotals checks the sale's item lines and arithmetic invariants
// without mutating it. RecordSale and EditSale run it after ComputeTotals,
// where it rejects malformed lines before any write.
func (s *Sale) ValidateTotals() error {
	subTotal := decimal.Zero
	for i, item := range s.Items {
		if item.Qty < 0 {
			return &ValidationError{Field: "items", Reason: fmt.Sprintf("negative quantity on line %d", i)}
		}
		subTotal = subTotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	if !s.SubTotal.Equal(subTotal) {
		return &ValidationError{Field: "subTotal", Reason: "does not equal sum of item totals"}
	}
	total := subTotal.Add(s.Others).Sub(s.Discount)
	if !s.Total.Equal(total) {
		return &ValidationError{Field: "total", Reason: "does not equal subTotal + others - discount"}
	}
	if !s.Balance.Equal(s.Total.Sub(s.ReceivedAmount)) {
		return &ValidationError{Field: "balance", Reason: "does not equal total - receivedAmount"}
	}
	return nil
}
