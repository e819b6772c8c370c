package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SalesmanService manages shop employees. Linking sales to salesmen happens
// in SalesService, which credits total_sales atomically with the link.
type SalesmanService interface {
	List(ctx context.Context) ([]Salesman, error)
	Create(ctx context.Context, m *Salesman) (*Salesman, error)
	Update(ctx context.Context, id int, m *Salesman) error
	Delete(ctx context.Context, id int) error
}

type salesmanService struct {
	pool *pgxpool.Pool
}

func NewSalesmanService(pool *pgxpool.Pool) SalesmanService {
	return &salesmanService{pool: pool}
}

func (s *salesmanService) List(ctx context.Context) ([]Salesman, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, phone, secondary_phone, address, cnic, salary,
		       joining_date, total_sales, commission_earned, created_at
		FROM salesmen
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query salesmen: %w", err)
	}
	defer rows.Close()

	var salesmen []Salesman
	for rows.Next() {
		var m Salesman
		if err := rows.Scan(&m.ID, &m.Name, &m.Phone, &m.SecondaryPhone, &m.Address,
			&m.CNIC, &m.Salary, &m.JoiningDate, &m.TotalSales, &m.CommissionEarned,
			&m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan salesman: %w", err)
		}
		salesmen = append(salesmen, m)
	}
	return salesmen, rows.Err()
}

func (s *salesmanService) Create(ctx context.Context, m *Salesman) (*Salesman, error) {
	if m.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO salesmen (name, phone, secondary_phone, address, cnic, salary, joining_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, total_sales, commission_earned, created_at
	`, m.Name, m.Phone, m.SecondaryPhone, m.Address, m.CNIC, m.Salary, m.JoiningDate,
	).Scan(&m.ID, &m.TotalSales, &m.CommissionEarned, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert salesman: %w", err)
	}
	return m, nil
}

func (s *salesmanService) Update(ctx context.Context, id int, m *Salesman) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE salesmen SET name = $1, phone = $2, secondary_phone = $3, address = $4,
		       cnic = $5, salary = $6, joining_date = $7, commission_earned = $8
		WHERE id = $9
	`, m.Name, m.Phone, m.SecondaryPhone, m.Address, m.CNIC, m.Salary,
		m.JoiningDate, m.CommissionEarned, id)
	if err != nil {
		return fmt.Errorf("failed to update salesman %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("salesman %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *salesmanService) Delete(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM salesmen WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete salesman %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("salesman %d: %w", id, ErrNotFound)
	}
	return nil
}
