package core_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"retail-backoffice/internal/core"
)

func TestAnalyticsReport(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	sales := core.NewSalesService(pool)
	products := core.NewProductService(pool)
	purchases := core.NewPurchaseService(pool)
	expenses := core.NewExpenseService(pool)
	balances := core.NewBalanceService(pool)
	reporting := core.NewReportingService(pool, balances)

	p := seedProduct(t, products, "Widget", 0)
	if _, err := purchases.Create(ctx, &core.Purchase{
		ProductID: p.ID, Quantity: 10, CostPerItem: dec(t, "40"),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := expenses.Create(ctx, &core.Expense{Title: "Rent", Amount: dec(t, "1000")}); err != nil {
		t.Fatal(err)
	}
	recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 2, Price: dec(t, "100")}}, "150")

	report, err := reporting.Report(ctx, core.DateWindow{})
	if err != nil {
		t.Fatal(err)
	}
	if !report.TotalRevenue.Equal(dec(t, "200")) {
		t.Errorf("revenue = %s, want 200", report.TotalRevenue)
	}
	if !report.TotalReceived.Equal(dec(t, "150")) {
		t.Errorf("received = %s, want 150", report.TotalReceived)
	}
	if !report.TotalExpenses.Equal(dec(t, "1000")) {
		t.Errorf("expenses = %s, want 1000", report.TotalExpenses)
	}
	if !report.TotalPurchases.Equal(dec(t, "400")) {
		t.Errorf("purchases = %s, want 400", report.TotalPurchases)
	}
	if !report.TotalDues.Equal(dec(t, "50")) {
		t.Errorf("dues = %s, want 50", report.TotalDues)
	}
}

func TestAnalyticsExcludesAdjustmentsFromRevenue(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	sales := core.NewSalesService(pool)
	balances := core.NewBalanceService(pool)
	engine := core.NewAdjustmentEngine(pool, dec(t, "0.01"))
	reporting := core.NewReportingService(pool, balances)

	recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "100")}}, "0")
	if _, err := engine.AdjustBalance(ctx, core.NewIdentity("Ali", "123"), dec(t, "500")); err != nil {
		t.Fatal(err)
	}

	report, err := reporting.Report(ctx, core.DateWindow{})
	if err != nil {
		t.Fatal(err)
	}
	if !report.TotalRevenue.Equal(dec(t, "100")) {
		t.Errorf("revenue = %s, want 100 (adjustments excluded)", report.TotalRevenue)
	}
	// Dues still see the adjusted ledger.
	if !report.TotalDues.Equal(dec(t, "500")) {
		t.Errorf("dues = %s, want 500", report.TotalDues)
	}
	if report.SalesCount != 1 {
		t.Errorf("salesCount = %d, want 1", report.SalesCount)
	}
}

func TestExportCSVAndStats(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	sales := core.NewSalesService(pool)
	export := core.NewExportService(pool, sales)

	recordSale(t, sales, "Ali", "123", []core.SaleItem{
		{Description: "Widget", Qty: 2, Price: dec(t, "100")},
		{Description: "Cable", Qty: 1, Price: dec(t, "30")},
	}, "100")

	var buf bytes.Buffer
	if err := export.WriteCSV(ctx, &buf, core.DateWindow{}); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// Header plus one row per item.
	if len(records) != 3 {
		t.Fatalf("expected 3 csv records, got %d", len(records))
	}
	if records[0][0] != "Invoice #" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][4] != "Widget" || records[2][4] != "Cable" {
		t.Errorf("unexpected item rows: %v / %v", records[1], records[2])
	}

	stats, err := export.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Sales != 1 {
		t.Errorf("stats.Sales = %d, want 1", stats.Sales)
	}
}
