package core

import (
	"context"
	"testing"
)

func TestRecordSaleRejectsNegativeQuantity(t *testing.T) {
	svc := NewSalesService(nil)
	_, err := svc.RecordSale(context.Background(), &Sale{
		CustomerName:  "Ali",
		CustomerPhone: "123",
		Items:         []SaleItem{{Description: "Widget", Qty: -2, Price: dec("100")}},
	})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestEditSaleRejectsNegativeQuantity(t *testing.T) {
	svc := NewSalesService(nil)
	_, err := svc.EditSale(context.Background(), 1, &Sale{
		CustomerName:  "Ali",
		CustomerPhone: "123",
		Items:         []SaleItem{{Description: "Widget", Qty: -1, Price: dec("50")}},
	})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}
