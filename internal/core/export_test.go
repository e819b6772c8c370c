package core

import (
	"testing"
	"time"
)

func TestFlattenSalesOneRowPerItem(t *testing.T) {
	sales := []Sale{
		{
			InvoiceNumber: 7,
			InvoiceDate:   time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
			CustomerName:  "Ali",
			CustomerPhone: "123",
			Items: []SaleItem{
				{Description: "Widget", Qty: 2, Price: dec("50")},
				{Description: "Cable", Qty: 1, Price: dec("30")},
			},
			SubTotal:       dec("130"),
			Discount:       dec("10"),
			ReceivedAmount: dec("100"),
			Balance:        dec("20"),
		},
	}

	rows := flattenSales(sales)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first[0] != "7" || first[1] != "2026-02-01" || first[4] != "Widget" {
		t.Errorf("unexpected first row: %v", first)
	}
	if first[6] != "50.00" || first[7] != "100.00" {
		t.Errorf("item price/total wrong: %v", first)
	}
	// Invoice-level columns repeat on every row.
	if rows[1][8] != "130.00" || rows[1][11] != "20.00" {
		t.Errorf("invoice columns missing on second row: %v", rows[1])
	}
}

func TestFlattenSalesEmptyInvoice(t *testing.T) {
	sales := []Sale{{
		InvoiceNumber: 3,
		InvoiceDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		CustomerName:  "Ali",
		CustomerPhone: "123",
		Balance:       dec("500"),
	}}

	rows := flattenSales(sales)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row for itemless invoice, got %d", len(rows))
	}
	if rows[0][4] != "" || rows[0][11] != "500.00" {
		t.Errorf("unexpected row: %v", rows[0])
	}
}
