package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductService manages the product catalog. Sale-driven stock changes go
// through SalesService; this service owns catalog CRUD and the manual stock
// write, which clamps at zero. Purchasing-driven stock changes live in
// PurchaseService.
type ProductService interface {
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, id int, p *Product) error
	SetRemaining(ctx context.Context, id, remaining int) error
	Delete(ctx context.Context, id int) error
	FindByName(ctx context.Context, name string) (*Product, error)
}

type productService struct {
	pool *pgxpool.Pool
}

func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

func (s *productService) List(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, category, purchase_price, sale_price, remaining, created_at
		FROM products ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PurchasePrice,
			&p.SalePrice, &p.Remaining, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *productService) Create(ctx context.Context, p *Product) (*Product, error) {
	if p.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, category, purchase_price, sale_price, remaining)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, p.Name, p.Category, p.PurchasePrice, p.SalePrice, p.Remaining).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, id int, p *Product) error {
	if p.Remaining < 0 {
		p.Remaining = 0
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE products SET name = $1, category = $2, purchase_price = $3,
		       sale_price = $4, remaining = $5
		WHERE id = $6
	`, p.Name, p.Category, p.PurchasePrice, p.SalePrice, p.Remaining, id)
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetRemaining writes the stock level directly. Manual writes clamp at zero;
// only sale-driven deltas may take stock negative.
func (s *productService) SetRemaining(ctx context.Context, id, remaining int) error {
	if remaining < 0 {
		remaining = 0
	}
	tag, err := s.pool.Exec(ctx,
		"UPDATE products SET remaining = $1 WHERE id = $2", remaining, id)
	if err != nil {
		return fmt.Errorf("failed to set stock for product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *productService) Delete(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *productService) FindByName(ctx context.Context, name string) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, category, purchase_price, sale_price, remaining, created_at
		FROM products WHERE name = $1
	`, name).Scan(&p.ID, &p.Name, &p.Category, &p.PurchasePrice, &p.SalePrice, &p.Remaining, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find product %q: %w", name, err)
	}
	return &p, nil
}
