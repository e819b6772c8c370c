package core_test

import (
	"context"
	"os"
	"testing"

	"retail-backoffice/internal/core"
	"retail-backoffice/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.RunMigrations(ctx, pool); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE sale_items, sales, customers, products, purchases,
		expenses, expense_categories, categories, salesmen, vendors, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func recordSale(t *testing.T, sales core.SalesService, name, phone string, items []core.SaleItem, received string) *core.Sale {
	t.Helper()
	sale, err := sales.RecordSale(context.Background(), &core.Sale{
		CustomerName:   name,
		CustomerPhone:  phone,
		Items:          items,
		ReceivedAmount: dec(t, received),
	})
	if err != nil {
		t.Fatalf("failed to record sale: %v", err)
	}
	return sale
}

func TestBalanceResolve_NormalCustomer(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	sales := core.NewSalesService(pool)
	balances := core.NewBalanceService(pool)

	recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 2, Price: dec(t, "100")}}, "50")
	recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "100")}}, "100")

	rb, err := balances.Resolve(ctx, core.NewIdentity("Ali", "123"))
	if err != nil {
		t.Fatal(err)
	}
	if rb.Registered {
		t.Error("expected unregistered identity")
	}
	if !rb.OpeningBalance.IsZero() {
		t.Errorf("opening = %s, want 0", rb.OpeningBalance)
	}
	// 200-50 owed on the first sale, 100-100 on the second.
	if !rb.TotalBalance.Equal(dec(t, "150")) {
		t.Errorf("total = %s, want 150", rb.TotalBalance)
	}
}

func TestBalanceResolve_RegisteredIncludesOpening(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	sales := core.NewSalesService(pool)
	customers := core.NewCustomerService(pool)
	balances := core.NewBalanceService(pool)

	if _, err := customers.Create(ctx, &core.Customer{
		Name: "Ali", Phone: "123", City: "Lahore", OpeningBalance: dec(t, "1000"),
	}); err != nil {
		t.Fatal(err)
	}
	recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "300")}}, "100")

	rb, err := balances.Resolve(ctx, core.NewIdentity("Ali", "123"))
	if err != nil {
		t.Fatal(err)
	}
	if !rb.Registered {
		t.Error("expected registered identity")
	}
	if !rb.TotalBalance.Equal(dec(t, "1200")) {
		t.Errorf("total = %s, want 1200", rb.TotalBalance)
	}
}

func TestBalanceResolve_IdentityIsTrimmedExactMatch(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	sales := core.NewSalesService(pool)
	balances := core.NewBalanceService(pool)

	// Whitespace variants fold into one identity; case variants do not.
	recordSale(t, sales, "  Ali ", "123", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "100")}}, "0")
	recordSale(t, sales, "ali", "123", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "999")}}, "0")

	rb, err := balances.Resolve(ctx, core.NewIdentity("Ali", "123"))
	if err != nil {
		t.Fatal(err)
	}
	if !rb.TotalBalance.Equal(dec(t, "100")) {
		t.Errorf("total = %s, want 100 (case-sensitive match)", rb.TotalBalance)
	}
}

func TestListDebtors_DedupesAndFilters(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	sales := core.NewSalesService(pool)
	customers := core.NewCustomerService(pool)
	balances := core.NewBalanceService(pool)

	// Registered debtor with sales on top of an opening balance.
	if _, err := customers.Create(ctx, &core.Customer{
		Name: "Ali", Phone: "123", OpeningBalance: dec(t, "500"),
	}); err != nil {
		t.Fatal(err)
	}
	recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "100")}}, "0")

	// Normal debtor.
	recordSale(t, sales, "Bilal", "456", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "50")}}, "0")

	// Fully settled customer must not appear.
	recordSale(t, sales, "Noor", "789", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "80")}}, "80")

	debtors, stats, err := balances.ListDebtors(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(debtors) != 2 {
		t.Fatalf("expected 2 debtors, got %d: %+v", len(debtors), debtors)
	}
	// Sorted descending: Ali (600) before Bilal (50).
	if debtors[0].Name != "Ali" || !debtors[0].TotalBalance.Equal(dec(t, "600")) {
		t.Errorf("top debtor = %+v, want Ali/600", debtors[0])
	}
	if !debtors[1].IsNormal {
		t.Error("Bilal should be flagged normal")
	}
	if !stats.TotalDues.Equal(dec(t, "650")) {
		t.Errorf("totalDues = %s, want 650", stats.TotalDues)
	}
	if stats.TotalCustomersWithDues != 2 || stats.TopDebtorName != "Ali" {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

// Two registrations sharing one identity: recovery must report the same
// balance Resolve does, with the oldest registration winning in both.
func TestListDebtors_DuplicateRegistrationsAgreeWithResolve(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	sales := core.NewSalesService(pool)
	customers := core.NewCustomerService(pool)
	balances := core.NewBalanceService(pool)
	identity := core.NewIdentity("Ali", "123")

	if _, err := customers.Create(ctx, &core.Customer{
		Name: "Ali", Phone: "123", OpeningBalance: dec(t, "100"),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := customers.Create(ctx, &core.Customer{
		Name: "Ali", Phone: "123", OpeningBalance: dec(t, "999"),
	}); err != nil {
		t.Fatal(err)
	}
	recordSale(t, sales, "Ali", "123", []core.SaleItem{{Description: "Widget", Qty: 1, Price: dec(t, "50")}}, "0")

	rb, err := balances.Resolve(ctx, identity)
	if err != nil {
		t.Fatal(err)
	}
	if !rb.TotalBalance.Equal(dec(t, "150")) {
		t.Fatalf("resolved total = %s, want 150", rb.TotalBalance)
	}

	debtors, _, err := balances.ListDebtors(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(debtors) != 1 {
		t.Fatalf("expected 1 debtor, got %d: %+v", len(debtors), debtors)
	}
	if !debtors[0].TotalBalance.Equal(rb.TotalBalance) {
		t.Errorf("recovery balance %s disagrees with resolve %s",
			debtors[0].TotalBalance, rb.TotalBalance)
	}
}

func TestListDebtors_EmptyStats(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	balances := core.NewBalanceService(pool)
	debtors, stats, err := balances.ListDebtors(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(debtors) != 0 {
		t.Errorf("expected no debtors, got %d", len(debtors))
	}
	if stats.TopDebtorName != "N/A" || !stats.TotalDues.IsZero() {
		t.Errorf("unexpected empty stats: %+v", stats)
	}
}
