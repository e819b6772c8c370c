package main

import (
	"context"
	"log"
	"time"

	"retail-backoffice/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// verify-db applies the embedded migrations, then checks that every table
// the services depend on exists and reports its row count.
func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("[CONNECT] %v", err)
	}
	defer pool.Close()
	log.Println("[CONNECT] success")

	conn := acquireLock(ctx, pool)
	defer conn.Release()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("[MIGRATE] %v", err)
	}
	log.Println("[MIGRATE] success")

	tables := []string{
		"customers", "sales", "sale_items", "products", "purchases",
		"expenses", "expense_categories", "categories", "salesmen",
		"vendors", "users",
	}
	for _, table := range tables {
		verifyTable(ctx, pool, table)
	}

	log.Println("[DONE] schema verified.")
}

func acquireLock(ctx context.Context, pool *pgxpool.Pool) *pgxpool.Conn {
	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := pool.Acquire(lockCtx)
	if err != nil {
		log.Fatalf("[LOCK] failed to acquire connection for lock: %v", err)
	}

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock(7462839)").Scan(&locked); err != nil {
		log.Fatalf("[LOCK] failed to query advisory lock: %v", err)
	}
	if !locked {
		log.Fatalf("[LOCK] failed: another migrator is currently running")
	}

	log.Println("[LOCK] success")
	return conn
}

func verifyTable(ctx context.Context, pool *pgxpool.Pool, table string) {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		log.Fatalf("[VERIFY] table %s: %v", table, err)
	}
	log.Printf("[VERIFY] %s: %d rows", table, count)
}
