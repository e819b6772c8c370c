package core_test

import (
	"context"
	"testing"

	"retail-backoffice/internal/core"
)

func seedProduct(t *testing.T, products core.ProductService, name string, remaining int) *core.Product {
	t.Helper()
	p, err := products.Create(context.Background(), &core.Product{
		Name:      name,
		SalePrice: dec(t, "100"),
		Remaining: remaining,
	})
	if err != nil {
		t.Fatalf("failed to seed product %q: %v", name, err)
	}
	return p
}

func productRemaining(t *testing.T, products core.ProductService, name string) int {
	t.Helper()
	p, err := products.FindByName(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to load product %q: %v", name, err)
	}
	return p.Remaining
}

func TestRecordSale_AssignsSequentialInvoiceNumbers(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool)

	first := recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "10")}}, "10")
	second := recordSale(t, sales, "Bilal", "456", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "10")}}, "10")

	if first.InvoiceNumber != 1 || second.InvoiceNumber != 2 {
		t.Errorf("invoice numbers = %d, %d; want 1, 2", first.InvoiceNumber, second.InvoiceNumber)
	}

	latest, err := sales.LatestInvoiceNumber(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if latest != 2 {
		t.Errorf("latest = %d, want 2", latest)
	}
}

func TestRecordSale_DecrementsStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool)
	products := core.NewProductService(pool)
	seedProduct(t, products, "Widget", 10)

	recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 4, Price: dec(t, "100")}}, "0")

	if got := productRemaining(t, products, "Widget"); got != 6 {
		t.Errorf("remaining = %d, want 6", got)
	}
}

func TestRecordSale_UnknownItemIgnoredByStockSync(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool)
	products := core.NewProductService(pool)
	seedProduct(t, products, "Widget", 10)

	// "Delivery Charge" matches no product; the sale records, stock untouched.
	sale := recordSale(t, sales, "Ali", "123", []core.SaleItem{
		{Description: "Delivery Charge", Qty: 1, Price: dec(t, "500")},
	}, "500")
	if sale.ID == 0 {
		t.Fatal("sale not persisted")
	}
	if got := productRemaining(t, products, "Widget"); got != 10 {
		t.Errorf("remaining = %d, want 10", got)
	}
}

func TestRecordSale_OversellGoesNegative(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool)
	products := core.NewProductService(pool)
	seedProduct(t, products, "Widget", 2)

	recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 5, Price: dec(t, "100")}}, "0")

	if got := productRemaining(t, products, "Widget"); got != -3 {
		t.Errorf("remaining = %d, want -3 (oversell permitted)", got)
	}
}

func TestEditSale_RevertsOldItemsAppliesNew(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	sales := core.NewSalesService(pool)
	products := core.NewProductService(pool)
	seedProduct(t, products, "Widget", 10)

	sale := recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 5, Price: dec(t, "100")}}, "0")
	if got := productRemaining(t, products, "Widget"); got != 5 {
		t.Fatalf("after sale: remaining = %d, want 5", got)
	}

	edited, err := sales.EditSale(ctx, sale.ID, &core.Sale{
		CustomerName:   "Ali",
		CustomerPhone:  "123",
		Items:          []core.SaleItem{{Description: "Widget", Qty: 3, Price: dec(t, "100")}},
		ReceivedAmount: dec(t, "300"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if edited.InvoiceNumber != sale.InvoiceNumber {
		t.Errorf("invoice number changed on edit: %d -> %d", sale.InvoiceNumber, edited.InvoiceNumber)
	}
	// 5 back in, 3 back out.
	if got := productRemaining(t, products, "Widget"); got != 7 {
		t.Errorf("after edit: remaining = %d, want 7", got)
	}
	if !edited.Balance.IsZero() {
		t.Errorf("edited balance = %s, want 0", edited.Balance)
	}
}

func TestDeleteSale_RestoresStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	sales := core.NewSalesService(pool)
	products := core.NewProductService(pool)
	seedProduct(t, products, "Widget", 10)

	sale := recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 4, Price: dec(t, "100")}}, "0")

	deleted, err := sales.DeleteSale(ctx, sale.ID)
	if err != nil {
		t.Fatal(err)
	}
	if deleted.InvoiceNumber != sale.InvoiceNumber {
		t.Errorf("returned record mismatch: %+v", deleted)
	}
	if got := productRemaining(t, products, "Widget"); got != 10 {
		t.Errorf("after delete: remaining = %d, want 10", got)
	}

	if _, err := sales.GetSale(ctx, sale.ID); err == nil {
		t.Error("deleted sale still readable")
	}

	// The number is retired, not reused.
	next := recordSale(t, sales, "Bilal", "456", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "10")}}, "10")
	if next.InvoiceNumber <= sale.InvoiceNumber {
		t.Errorf("invoice number reused: %d after %d", next.InvoiceNumber, sale.InvoiceNumber)
	}
}

func TestLinkSalesman(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	sales := core.NewSalesService(pool)
	salesmen := core.NewSalesmanService(pool)

	m, err := salesmen.Create(ctx, &core.Salesman{Name: "Imran"})
	if err != nil {
		t.Fatal(err)
	}
	sale := recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 2, Price: dec(t, "250")}}, "500")

	if err := sales.LinkSalesman(ctx, sale.InvoiceNumber, m.ID); err != nil {
		t.Fatal(err)
	}

	list, err := salesmen.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || !list[0].TotalSales.Equal(dec(t, "500")) {
		t.Errorf("totalSales = %+v, want 500", list)
	}

	// Linking twice conflicts.
	if err := sales.LinkSalesman(ctx, sale.InvoiceNumber, m.ID); err == nil {
		t.Error("second link accepted")
	}
}
