package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeTotals(t *testing.T) {
	sale := &Sale{
		Items: []SaleItem{
			{Description: "Widget", Qty: 5, Price: dec("100")},
			{Description: "Cable", Qty: 2, Price: dec("49.50")},
		},
		Others:         dec("10"),
		Discount:       dec("59"),
		ReceivedAmount: dec("300"),
	}
	sale.ComputeTotals()

	if !sale.SubTotal.Equal(dec("599")) {
		t.Errorf("subTotal = %s, want 599", sale.SubTotal)
	}
	if !sale.Total.Equal(dec("550")) {
		t.Errorf("total = %s, want 550", sale.Total)
	}
	if !sale.Balance.Equal(dec("250")) {
		t.Errorf("balance = %s, want 250", sale.Balance)
	}
}

func TestComputeTotalsNegativeBalance(t *testing.T) {
	// Overpayment yields a negative balance, a credit toward the customer.
	sale := &Sale{
		Items:          []SaleItem{{Description: "Widget", Qty: 1, Price: dec("100")}},
		ReceivedAmount: dec("150"),
	}
	sale.ComputeTotals()
	if !sale.Balance.Equal(dec("-50")) {
		t.Errorf("balance = %s, want -50", sale.Balance)
	}
}

func TestValidateTotals(t *testing.T) {
	sale := &Sale{
		Items:          []SaleItem{{Description: "Widget", Qty: 2, Price: dec("50")}},
		SubTotal:       dec("100"),
		Total:          dec("100"),
		ReceivedAmount: dec("40"),
		Balance:        dec("60"),
	}
	if err := sale.ValidateTotals(); err != nil {
		t.Errorf("valid sale rejected: %v", err)
	}

	sale.Balance = dec("61")
	if err := sale.ValidateTotals(); err == nil {
		t.Error("inconsistent balance accepted")
	}

	sale.Balance = dec("60")
	sale.Items[0].Qty = -1
	if err := sale.ValidateTotals(); err == nil {
		t.Error("negative quantity accepted")
	}
}
