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

// CustomerSummary is a registry row with its journal aggregates folded in,
// as shown on the customers screen.
type CustomerSummary struct {
	Customer
	IsNormal         bool            `json:"isNormal"`
	TotalPurchases   int             `json:"totalPurchases"`
	AmountSpent      decimal.Decimal `json:"amountSpent"`
	SalesBalance     decimal.Decimal `json:"salesBalance"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	LastPurchaseDate *time.Time      `json:"lastPurchaseDate,omitempty"`
}

// CustomerService manages the customer registry. Deleting a customer is a
// hard delete: its sales stay in the journal and resurface under a "normal"
// customer with the same identity.
type CustomerService interface {
	ListRegistered(ctx context.Context) ([]CustomerSummary, error)
	ListNormal(ctx context.Context) ([]CustomerSummary, error)
	Create(ctx context.Context, c *Customer) (*Customer, error)
	Update(ctx context.Context, id int, c *Customer) error
	UpdateOpeningBalance(ctx context.Context, id int, opening decimal.Decimal) error
	Delete(ctx context.Context, id int) error
	FindByIdentity(ctx context.Context, identity Identity) (*Customer, error)
}

type customerService struct {
	pool *pgxpool.Pool
}

func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

// ListRegistered returns every registry row with totalPurchases, amountSpent
// (Σ subTotal), salesBalance, lastPurchaseDate and the derived totalBalance.
func (s *customerService) ListRegistered(ctx context.Context) ([]CustomerSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.name, c.phone, c.city, c.opening_balance, c.created_at,
		       COALESCE(agg.total_purchases, 0),
		       COALESCE(agg.amount_spent, 0),
		       COALESCE(agg.sales_balance, 0),
		       agg.last_purchase_date
		FROM customers c
		LEFT JOIN (
			SELECT BTRIM(customer_name) AS name, BTRIM(customer_phone) AS phone,
			       COUNT(*)           AS total_purchases,
			       SUM(sub_total)     AS amount_spent,
			       SUM(balance)       AS sales_balance,
			       MAX(invoice_date)  AS last_purchase_date
			FROM sales
			GROUP BY 1, 2
		) agg ON agg.name = BTRIM(c.name) AND agg.phone = BTRIM(c.phone)
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var out []CustomerSummary
	for rows.Next() {
		var cs CustomerSummary
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.Phone, &cs.City, &cs.OpeningBalance, &cs.CreatedAt,
			&cs.TotalPurchases, &cs.AmountSpent, &cs.SalesBalance, &cs.LastPurchaseDate); err != nil {
			return nil, fmt.Errorf("failed to scan customer summary: %w", err)
		}
		cs.TotalBalance = cs.OpeningBalance.Add(cs.SalesBalance)
		out = append(out, cs)
	}
	return out, rows.Err()
}

// ListNormal groups the sales journal by identity and drops every group that
// matches a registered customer, leaving the ghost customers that exist only
// in the journal.
func (s *customerService) ListNormal(ctx context.Context) ([]CustomerSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT BTRIM(sa.customer_name), BTRIM(sa.customer_phone),
		       COUNT(*), SUM(sa.sub_total), SUM(sa.balance), MAX(sa.invoice_date)
		FROM sales sa
		WHERE NOT EXISTS (
			SELECT 1 FROM customers c
			WHERE BTRIM(c.name) = BTRIM(sa.customer_name)
			  AND BTRIM(c.phone) = BTRIM(sa.customer_phone)
		)
		GROUP BY 1, 2
		ORDER BY 1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query normal customers: %w", err)
	}
	defer rows.Close()

	var out []CustomerSummary
	for rows.Next() {
		var cs CustomerSummary
		var last time.Time
		if err := rows.Scan(&cs.Name, &cs.Phone, &cs.TotalPurchases,
			&cs.AmountSpent, &cs.SalesBalance, &last); err != nil {
			return nil, fmt.Errorf("failed to scan normal customer: %w", err)
		}
		cs.IsNormal = true
		cs.OpeningBalance = decimal.Zero
		cs.TotalBalance = cs.SalesBalance
		cs.LastPurchaseDate = &last
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (s *customerService) Create(ctx context.Context, c *Customer) (*Customer, error) {
	identity := NewIdentity(c.Name, c.Phone)
	if !identity.Valid() {
		return nil, &ValidationError{Field: "customer", Reason: "name and phone are required"}
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (name, phone, city, opening_balance)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.Name, c.Phone, c.City, c.OpeningBalance).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}
	return c, nil
}

func (s *customerService) Update(ctx context.Context, id int, c *Customer) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE customers SET name = $1, phone = $2, city = $3, opening_balance = $4
		WHERE id = $5
	`, c.Name, c.Phone, c.City, c.OpeningBalance, id)
	if err != nil {
		return fmt.Errorf("failed to update customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateOpeningBalance rewrites only the opening balance. This is the
// registered-customer balance-edit path.
func (s *customerService) UpdateOpeningBalance(ctx context.Context, id int, opening decimal.Decimal) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE customers SET opening_balance = $1 WHERE id = $2", opening, id)
	if err != nil {
		return fmt.Errorf("failed to update opening balance for customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *customerService) Delete(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *customerService) FindByIdentity(ctx context.Context, identity Identity) (*Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, phone, city, opening_balance, created_at
		FROM customers
		WHERE BTRIM(name) = $1 AND BTRIM(phone) = $2
		ORDER BY id LIMIT 1
	`, identity.Name, identity.Phone).Scan(&c.ID, &c.Name, &c.Phone, &c.City, &c.OpeningBalance, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %s: %w", identity.Key(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &c, nil
}
