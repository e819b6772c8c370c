package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AdjustmentItemDescription is the line description on every synthetic
// adjustment sale. It must never collide with a catalog product name, so
// adjustment rows can never resolve against inventory.
const AdjustmentItemDescription = "Manual Balance Adjustment"

// DefaultAdjustmentEpsilon is the tolerance below which a requested balance
// change is treated as floating-point noise and skipped.
var DefaultAdjustmentEpsilon = decimal.NewFromFloat(0.01)

// AdjustmentStrategy names the mutation an adjustment performed.
type AdjustmentStrategy string

const (
	StrategyNone           AdjustmentStrategy = "none"
	StrategyOpeningBalance AdjustmentStrategy = "opening-balance"
	StrategyAdjustmentSale AdjustmentStrategy = "adjustment-sale"
)

// AdjustmentResult reports what AdjustBalance did.
type AdjustmentResult struct {
	Adjusted bool               `json:"adjusted"`
	Delta    decimal.Decimal    `json:"delta"`
	Strategy AdjustmentStrategy `json:"strategy"`
}

// AdjustmentEngine forces an identity's resolved total balance to a target
// value. One policy per customer classification:
//
//   - registered customer: rewrite opening_balance = target - salesBalance,
//     so the ledger is not inflated with synthetic rows;
//   - normal customer: append a zero-value adjustment sale carrying the delta
//     as its balance.
//
// RegisterAtBalance converts a normal customer into a registered one whose
// opening balance reproduces the target, posting nothing to the journal.
type AdjustmentEngine interface {
	AdjustBalance(ctx context.Context, identity Identity, target decimal.Decimal) (*AdjustmentResult, error)
	RegisterAtBalance(ctx context.Context, identity Identity, city string, target decimal.Decimal) (*Customer, error)
}

type adjustmentEngine struct {
	pool    *pgxpool.Pool
	epsilon decimal.Decimal
}

// NewAdjustmentEngine constructs the engine. A zero epsilon falls back to
// DefaultAdjustmentEpsilon.
func NewAdjustmentEngine(pool *pgxpool.Pool, epsilon decimal.Decimal) AdjustmentEngine {
	if epsilon.LessThanOrEqual(decimal.Zero) {
		epsilon = DefaultAdjustmentEpsilon
	}
	return &adjustmentEngine{pool: pool, epsilon: epsilon}
}

// AdjustBalance resolves the identity's current total inside a transaction
// serialized per identity, computes the delta to the target, and applies the
// strategy for the identity's classification. Repeated calls with the same
// target are no-ops within the epsilon tolerance.
func (e *adjustmentEngine) AdjustBalance(ctx context.Context, identity Identity, target decimal.Decimal) (*AdjustmentResult, error) {
	if !identity.Valid() {
		return nil, &ValidationError{Field: "identity", Reason: "name and phone are required"}
	}

	// Invoice-number collisions with concurrent sale creation are possible in
	// the adjustment-sale path; retry the whole transaction on unique
	// violation like RecordSale does.
	var result *AdjustmentResult
	err := withSerialRetry(ctx, func() error {
		var innerErr error
		result, innerErr = e.adjustOnce(ctx, identity, target)
		return innerErr
	})
	return result, err
}

func (e *adjustmentEngine) adjustOnce(ctx context.Context, identity Identity, target decimal.Decimal) (*AdjustmentResult, error) {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent adjustments against the same identity. The lock is
	// transaction-scoped and keyed on the canonical identity string, so two
	// racing requests cannot both observe the pre-adjustment balance.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", identity.Key()); err != nil {
		return nil, fmt.Errorf("failed to acquire identity lock: %w", err)
	}

	current, err := resolveBalance(ctx, tx, identity)
	if err != nil {
		return nil, err
	}

	delta := target.Sub(current.TotalBalance)
	if delta.Abs().LessThan(e.epsilon) {
		return &AdjustmentResult{Adjusted: false, Delta: decimal.Zero, Strategy: StrategyNone}, nil
	}

	if current.Registered {
		newOpening := target.Sub(current.SalesBalance)
		tag, err := tx.Exec(ctx, `
			UPDATE customers SET opening_balance = $1
			WHERE id = (
				SELECT id FROM customers
				WHERE BTRIM(name) = $2 AND BTRIM(phone) = $3
				ORDER BY id LIMIT 1
			)
		`, newOpening, identity.Name, identity.Phone)
		if err != nil {
			return nil, fmt.Errorf("failed to rewrite opening balance: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("customer vanished during adjustment: %w", ErrNotFound)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit adjustment: %w", err)
		}
		return &AdjustmentResult{Adjusted: true, Delta: delta, Strategy: StrategyOpeningBalance}, nil
	}

	if err := insertAdjustmentSale(ctx, tx, identity, delta); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit adjustment: %w", err)
	}
	return &AdjustmentResult{Adjusted: true, Delta: delta, Strategy: StrategyAdjustmentSale}, nil
}

// insertAdjustmentSale appends the synthetic ledger posting: a zero-value sale
// whose balance carries the delta. receivedAmount = -delta keeps the sale's
// own arithmetic invariant (balance = total - received) intact.
func insertAdjustmentSale(ctx context.Context, tx pgx.Tx, identity Identity, delta decimal.Decimal) error {
	invoiceNumber, err := nextInvoiceNumber(ctx, tx)
	if err != nil {
		return err
	}

	var saleID int
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (invoice_number, customer_name, customer_phone,
		                   sub_total, others, discount, total,
		                   received_amount, balance, invoice_date, is_adjustment)
		VALUES ($1, $2, $3, 0, 0, 0, 0, $4, $5, $6, TRUE)
		RETURNING id
	`, invoiceNumber, identity.Name, identity.Phone, delta.Neg(), delta, time.Now()).Scan(&saleID)
	if err != nil {
		return fmt.Errorf("failed to insert adjustment sale: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO sale_items (sale_id, description, qty, price, position)
		VALUES ($1, $2, 1, 0, 0)
	`, saleID, AdjustmentItemDescription)
	if err != nil {
		return fmt.Errorf("failed to insert adjustment line: %w", err)
	}
	return nil
}

// RegisterAtBalance registers a previously-normal customer with an opening
// balance chosen so the resolver reproduces the target. No journal row is
// posted, which makes the balance change permanent and idempotent.
func (e *adjustmentEngine) RegisterAtBalance(ctx context.Context, identity Identity, city string, target decimal.Decimal) (*Customer, error) {
	if !identity.Valid() {
		return nil, &ValidationError{Field: "identity", Reason: "name and phone are required"}
	}
	if city == "" {
		city = "N/A"
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", identity.Key()); err != nil {
		return nil, fmt.Errorf("failed to acquire identity lock: %w", err)
	}

	current, err := resolveBalance(ctx, tx, identity)
	if err != nil {
		return nil, err
	}
	if current.Registered {
		return nil, fmt.Errorf("customer %s is already registered: %w", identity.Key(), ErrConflict)
	}

	opening := target.Sub(current.SalesBalance)
	c := &Customer{
		Name:           identity.Name,
		Phone:          identity.Phone,
		City:           city,
		OpeningBalance: opening,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO customers (name, phone, city, opening_balance)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.Name, c.Phone, c.City, c.OpeningBalance).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}
	return c, nil
}

// withSerialRetry retries fn a few times when it fails with a unique-key
// violation (invoice number race between concurrent writers).
func withSerialRetry(ctx context.Context, fn func() error) error {
	const maxAttempts = 3
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
