package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogService manages the name-keyed product category list.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, name string) error
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	return listNames(ctx, s.pool, "categories")
}

func (s *catalogService) AddCategory(ctx context.Context, name string) error {
	return addName(ctx, s.pool, "categories", name)
}

func (s *catalogService) DeleteCategory(ctx context.Context, name string) error {
	return deleteName(ctx, s.pool, "categories", name)
}

// The two category tables share the same shape: a single name primary key.

func listNames(ctx context.Context, pool *pgxpool.Pool, table string) ([]string, error) {
	rows, err := pool.Query(ctx, fmt.Sprintf("SELECT name FROM %s ORDER BY name", table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func addName(ctx context.Context, pool *pgxpool.Pool, table, name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	_, err := pool.Exec(ctx,
		fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", table), name)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func deleteName(ctx context.Context, pool *pgxpool.Pool, table, name string) error {
	tag, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE name = $1", table), name)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %q: %w", table, name, ErrNotFound)
	}
	return nil
}
