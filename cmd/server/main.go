package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "retail-backoffice/internal/adapters/web"
	"retail-backoffice/internal/app"
	"retail-backoffice/internal/core"
	"retail-backoffice/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

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

	epsilon := decimal.Zero
	if raw := os.Getenv("ADJUSTMENT_EPSILON"); raw != "" {
		epsilon, err = decimal.NewFromString(raw)
		if err != nil {
			log.Fatalf("invalid ADJUSTMENT_EPSILON %q: %v", raw, err)
		}
	}

	salesService := core.NewSalesService(pool)
	balanceService := core.NewBalanceService(pool)
	adjustmentEngine := core.NewAdjustmentEngine(pool, epsilon)
	customerService := core.NewCustomerService(pool)
	productService := core.NewProductService(pool)
	purchaseService := core.NewPurchaseService(pool)
	expenseService := core.NewExpenseService(pool)
	catalogService := core.NewCatalogService(pool)
	salesmanService := core.NewSalesmanService(pool)
	vendorService := core.NewVendorService(pool)
	reportingService := core.NewReportingService(pool, balanceService)
	exportService := core.NewExportService(pool, salesService)
	userService := core.NewUserService(pool)

	if err := userService.EnsureAdmin(ctx); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	svc := app.NewAppService(
		salesService, balanceService, adjustmentEngine,
		customerService, productService, purchaseService,
		expenseService, catalogService, salesmanService,
		vendorService, reportingService, exportService, userService,
	)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
