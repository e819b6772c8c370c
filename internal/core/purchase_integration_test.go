package core_test

import (
	"context"
	"testing"

	"retail-backoffice/internal/core"
)

func TestPurchaseCreateAndDeleteAreSymmetric(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	products := core.NewProductService(pool)
	purchases := core.NewPurchaseService(pool)
	p := seedProduct(t, products, "Widget", 5)

	created, err := purchases.Create(ctx, &core.Purchase{
		ProductID:   p.ID,
		VendorName:  "Acme Supply",
		Quantity:    10,
		CostPerItem: dec(t, "40"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !created.TotalCost.Equal(dec(t, "400")) {
		t.Errorf("totalCost = %s, want 400", created.TotalCost)
	}
	if got := productRemaining(t, products, "Widget"); got != 15 {
		t.Errorf("after purchase: remaining = %d, want 15", got)
	}

	// The latest cost becomes the product's purchase price.
	reloaded, err := products.FindByName(ctx, "Widget")
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.PurchasePrice.Equal(dec(t, "40")) {
		t.Errorf("purchasePrice = %s, want 40", reloaded.PurchasePrice)
	}

	if err := purchases.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if got := productRemaining(t, products, "Widget"); got != 5 {
		t.Errorf("after delete: remaining = %d, want 5", got)
	}
}

func TestPurchaseCreateValidation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	purchases := core.NewPurchaseService(pool)

	if _, err := purchases.Create(ctx, &core.Purchase{Quantity: 5}); err == nil {
		t.Error("missing product accepted")
	}
	if _, err := purchases.Create(ctx, &core.Purchase{ProductID: 1, Quantity: 0}); err == nil {
		t.Error("zero quantity accepted")
	}
	if _, err := purchases.Create(ctx, &core.Purchase{ProductID: 9999, Quantity: 1}); err == nil {
		t.Error("unknown product accepted")
	}
}

func TestExpenseListTotals(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	expenses := core.NewExpenseService(pool)
	for _, amount := range []string{"100", "250.50"} {
		if _, err := expenses.Create(ctx, &core.Expense{
			Title: "Utility", Amount: dec(t, amount),
		}); err != nil {
			t.Fatal(err)
		}
	}

	list, total, err := expenses.List(ctx, core.DateWindow{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(list))
	}
	if !total.Equal(dec(t, "350.50")) {
		t.Errorf("total = %s, want 350.50", total)
	}
}
