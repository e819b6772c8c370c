package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// VendorService manages supplier records.
type VendorService interface {
	List(ctx context.Context) ([]Vendor, error)
	Create(ctx context.Context, v *Vendor) (*Vendor, error)
	Update(ctx context.Context, id int, v *Vendor) error
	Delete(ctx context.Context, id int) error
}

type vendorService struct {
	pool *pgxpool.Pool
}

func NewVendorService(pool *pgxpool.Pool) VendorService {
	return &vendorService{pool: pool}
}

func (s *vendorService) List(ctx context.Context) ([]Vendor, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, phone, address, created_at FROM vendors ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Phone, &v.Address, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (s *vendorService) Create(ctx context.Context, v *Vendor) (*Vendor, error) {
	if v.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO vendors (name, phone, address)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, v.Name, v.Phone, v.Address).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert vendor: %w", err)
	}
	return v, nil
}

func (s *vendorService) Update(ctx context.Context, id int, v *Vendor) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE vendors SET name = $1, phone = $2, address = $3 WHERE id = $4",
		v.Name, v.Phone, v.Address, id)
	if err != nil {
		return fmt.Errorf("failed to update vendor %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vendor %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *vendorService) Delete(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM vendors WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete vendor %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vendor %d: %w", id, ErrNotFound)
	}
	return nil
}
