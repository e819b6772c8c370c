package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PurchaseService records incoming stock. Creating a purchase increments the
// product's remaining stock and rewrites its purchase price; deleting a
// purchase reverses the stock effect (unclamped). Both run in a single
// transaction with the purchase row.
type PurchaseService interface {
	List(ctx context.Context, window DateWindow) ([]Purchase, error)
	Create(ctx context.Context, p *Purchase) (*Purchase, error)
	Delete(ctx context.Context, id int) error
}

type purchaseService struct {
	pool *pgxpool.Pool
}

func NewPurchaseService(pool *pgxpool.Pool) PurchaseService {
	return &purchaseService{pool: pool}
}

func (s *purchaseService) List(ctx context.Context, window DateWindow) ([]Purchase, error) {
	where := ""
	var args []any
	if window.From != nil {
		args = append(args, *window.From)
		where = fmt.Sprintf("WHERE p.purchase_date >= $%d", len(args))
	}
	if window.To != nil {
		args = append(args, *window.To)
		if where == "" {
			where = fmt.Sprintf("WHERE p.purchase_date <= $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND p.purchase_date <= $%d", len(args))
		}
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT p.id, p.product_id, pr.name, p.vendor_name, p.quantity,
		       p.cost_per_item, p.total_cost, p.purchase_date, p.created_at
		FROM purchases p
		JOIN products pr ON pr.id = p.product_id
		%s
		ORDER BY p.purchase_date DESC, p.id DESC
	`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.ProductID, &p.ProductName, &p.VendorName,
			&p.Quantity, &p.CostPerItem, &p.TotalCost, &p.PurchaseDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (s *purchaseService) Create(ctx context.Context, p *Purchase) (*Purchase, error) {
	if p.ProductID == 0 {
		return nil, &ValidationError{Field: "productId", Reason: "required"}
	}
	if p.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if p.CostPerItem.IsNegative() {
		return nil, &ValidationError{Field: "costPerItem", Reason: "cannot be negative"}
	}
	p.TotalCost = p.CostPerItem.Mul(decimal.NewFromInt(int64(p.Quantity)))
	if p.PurchaseDate.IsZero() {
		p.PurchaseDate = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		"SELECT name FROM products WHERE id = $1 FOR UPDATE", p.ProductID,
	).Scan(&p.ProductName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", p.ProductID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock product %d: %w", p.ProductID, err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO purchases (product_id, vendor_name, quantity, cost_per_item, total_cost, purchase_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, p.ProductID, p.VendorName, p.Quantity, p.CostPerItem, p.TotalCost, p.PurchaseDate).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert purchase: %w", err)
	}

	// Stock in, and the latest cost becomes the product's purchase price.
	if _, err := tx.Exec(ctx, `
		UPDATE products SET remaining = remaining + $1, purchase_price = $2
		WHERE id = $3
	`, p.Quantity, p.CostPerItem, p.ProductID); err != nil {
		return nil, fmt.Errorf("failed to apply purchase stock: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}
	return p, nil
}

// Delete removes the purchase and takes its quantity back out of stock,
// unclamped: stock already sold on can go negative here, which is the same
// documented oversell tolerance the sales journal has.
func (s *purchaseService) Delete(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var productID, quantity int
	err = tx.QueryRow(ctx,
		"SELECT product_id, quantity FROM purchases WHERE id = $1 FOR UPDATE", id,
	).Scan(&productID, &quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("purchase %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to lock purchase %d: %w", id, err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM purchases WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete purchase %d: %w", id, err)
	}
	if _, err := tx.Exec(ctx,
		"UPDATE products SET remaining = remaining - $1 WHERE id = $2",
		quantity, productID); err != nil {
		return fmt.Errorf("failed to revert purchase stock: %w", err)
	}

	return tx.Commit(ctx)
}
