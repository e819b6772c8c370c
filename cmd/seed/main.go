package main

import (
	"context"
	"log"

	"retail-backoffice/internal/core"
	"retail-backoffice/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// seed loads a small demo dataset for local development: a product catalog,
// two registered customers and the default categories. It refuses to run
// against a database that already has sales.
func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	var saleCount int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM sales").Scan(&saleCount); err != nil {
		log.Fatalf("failed to inspect sales: %v", err)
	}
	if saleCount > 0 {
		log.Fatalf("refusing to seed: sales journal already has %d entries", saleCount)
	}

	users := core.NewUserService(pool)
	if err := users.EnsureAdmin(ctx); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	products := core.NewProductService(pool)
	for _, p := range []core.Product{
		{Name: "Ceiling Fan 56\"", Category: "Fans", PurchasePrice: dec(4200), SalePrice: dec(5500), Remaining: 20},
		{Name: "LED Bulb 12W", Category: "Lighting", PurchasePrice: dec(180), SalePrice: dec(250), Remaining: 200},
		{Name: "Extension Cord 5m", Category: "Wiring", PurchasePrice: dec(450), SalePrice: dec(700), Remaining: 35},
	} {
		if _, err := products.Create(ctx, &p); err != nil {
			log.Fatalf("failed to seed product %q: %v", p.Name, err)
		}
	}

	customers := core.NewCustomerService(pool)
	for _, c := range []core.Customer{
		{Name: "Ahmed Traders", Phone: "0300-1234567", City: "Lahore", OpeningBalance: dec(15000)},
		{Name: "Bilal Electronics", Phone: "0321-7654321", City: "Karachi", OpeningBalance: decimal.Zero},
	} {
		if _, err := customers.Create(ctx, &c); err != nil {
			log.Fatalf("failed to seed customer %q: %v", c.Name, err)
		}
	}

	catalog := core.NewCatalogService(pool)
	for _, name := range []string{"Fans", "Lighting", "Wiring"} {
		if err := catalog.AddCategory(ctx, name); err != nil {
			log.Fatalf("failed to seed category %q: %v", name, err)
		}
	}

	expenses := core.NewExpenseService(pool)
	for _, name := range []string{"Rent", "Utilities", "Salaries"} {
		if err := expenses.AddCategory(ctx, name); err != nil {
			log.Fatalf("failed to seed expense category %q: %v", name, err)
		}
	}

	log.Println("seed complete")
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
