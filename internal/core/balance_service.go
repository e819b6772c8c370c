package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ResolvedBalance is the derived ledger position of one identity. It is never
// persisted; every read recomputes it from the registry and the journal.
type ResolvedBalance struct {
	Identity       Identity        `json:"-"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Registered     bool            `json:"registered"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	SalesBalance   decimal.Decimal `json:"salesBalance"`
	TotalBalance   decimal.Decimal `json:"totalBalance"`
}

// Debtor is one row of the recovery view.
type Debtor struct {
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	City         string          `json:"city,omitempty"`
	IsNormal     bool            `json:"isNormal"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
}

// RecoveryStats summarize the recovery view.
type RecoveryStats struct {
	TotalDues              decimal.Decimal `json:"totalDues"`
	TotalCustomersWithDues int             `json:"totalCustomersWithDues"`
	TopDebtorName          string          `json:"topDebtorName"`
}

// BalanceService derives customer balances by merging the customer registry's
// opening balances with the sum of matching sales-journal balances, keyed by
// the trimmed (name, phone) identity.
type BalanceService interface {
	Resolve(ctx context.Context, identity Identity) (*ResolvedBalance, error)
	ListDebtors(ctx context.Context) ([]Debtor, *RecoveryStats, error)
}

type balanceService struct {
	pool *pgxpool.Pool
}

func NewBalanceService(pool *pgxpool.Pool) BalanceService {
	return &balanceService{pool: pool}
}

// Resolve computes openingBalance + Σ sale.balance for the identity, fresh on
// every call. Unregistered identities resolve with openingBalance 0.
func (s *balanceService) Resolve(ctx context.Context, identity Identity) (*ResolvedBalance, error) {
	if !identity.Valid() {
		return nil, &ValidationError{Field: "identity", Reason: "name and phone are required"}
	}
	return resolveBalance(ctx, s.pool, identity)
}

// queryRower is satisfied by both *pgxpool.Pool and pgx.Tx so resolution can
// run inside the adjustment engine's transaction.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func resolveBalance(ctx context.Context, q queryRower, identity Identity) (*ResolvedBalance, error) {
	rb := &ResolvedBalance{
		Identity:       identity,
		Name:           identity.Name,
		Phone:          identity.Phone,
		OpeningBalance: decimal.Zero,
	}

	err := q.QueryRow(ctx, `
		SELECT opening_balance
		FROM customers
		WHERE BTRIM(name) = $1 AND BTRIM(phone) = $2
		ORDER BY id
		LIMIT 1
	`, identity.Name, identity.Phone).Scan(&rb.OpeningBalance)
	switch {
	case err == nil:
		rb.Registered = true
	case errors.Is(err, pgx.ErrNoRows):
		// normal customer: synthesized purely from the sales journal
	default:
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	if err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(balance), 0)
		FROM sales
		WHERE BTRIM(customer_name) = $1 AND BTRIM(customer_phone) = $2
	`, identity.Name, identity.Phone).Scan(&rb.SalesBalance); err != nil {
		return nil, fmt.Errorf("failed to sum sales balances: %w", err)
	}

	rb.TotalBalance = rb.OpeningBalance.Add(rb.SalesBalance)
	return rb, nil
}

// ListDebtors resolves every distinct identity present in either collection,
// dedupes by identity key, keeps totalBalance > 0, and sorts descending.
func (s *balanceService) ListDebtors(ctx context.Context) ([]Debtor, *RecoveryStats, error) {
	// Registered customers with their sales balance folded in. Ordered by id
	// so duplicate registrations dedupe to the same row Resolve picks.
	rows, err := s.pool.Query(ctx, `
		SELECT c.name, c.phone, c.city,
		       c.opening_balance + COALESCE(sb.sales_balance, 0) AS total_balance
		FROM customers c
		LEFT JOIN (
			SELECT BTRIM(customer_name) AS name, BTRIM(customer_phone) AS phone,
			       SUM(balance) AS sales_balance
			FROM sales
			GROUP BY 1, 2
		) sb ON sb.name = BTRIM(c.name) AND sb.phone = BTRIM(c.phone)
		ORDER BY c.id
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query registered balances: %w", err)
	}
	defer rows.Close()

	var debtors []Debtor
	registered := make(map[string]bool)
	for rows.Next() {
		var d Debtor
		if err := rows.Scan(&d.Name, &d.Phone, &d.City, &d.TotalBalance); err != nil {
			return nil, nil, fmt.Errorf("failed to scan registered balance: %w", err)
		}
		key := NewIdentity(d.Name, d.Phone).Key()
		if registered[key] {
			continue
		}
		registered[key] = true
		debtors = append(debtors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating registered balances: %w", err)
	}

	// Normal customers: journal identities with no registry row.
	rows, err = s.pool.Query(ctx, `
		SELECT BTRIM(customer_name), BTRIM(customer_phone), SUM(balance)
		FROM sales
		GROUP BY 1, 2
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal identities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d Debtor
		if err := rows.Scan(&d.Name, &d.Phone, &d.TotalBalance); err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal identity: %w", err)
		}
		if registered[NewIdentity(d.Name, d.Phone).Key()] {
			continue
		}
		d.IsNormal = true
		debtors = append(debtors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal identities: %w", err)
	}

	filtered := debtors[:0]
	for _, d := range debtors {
		if d.TotalBalance.GreaterThan(decimal.Zero) {
			filtered = append(filtered, d)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].TotalBalance.GreaterThan(filtered[j].TotalBalance)
	})

	stats := &RecoveryStats{TotalDues: decimal.Zero, TopDebtorName: "N/A"}
	for _, d := range filtered {
		stats.TotalDues = stats.TotalDues.Add(d.TotalBalance)
	}
	stats.TotalCustomersWithDues = len(filtered)
	if len(filtered) > 0 {
		stats.TopDebtorName = filtered[0].Name
	}

	return filtered, stats, nil
}
