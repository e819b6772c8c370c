package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SalesFilter narrows ListSales. CustomerName matches case-insensitively on
// the trimmed name, mirroring the search behavior of the sales screen.
type SalesFilter struct {
	CustomerName string
	SalesmanID   *int
	From         *time.Time
	To           *time.Time
}

// SalesService owns the sales journal and its inventory side effects.
//
// Stock discipline: creating a sale decrements each matching product's
// remaining stock, deleting increments it back, and editing reverts every old
// item before applying every new one (never a diff). A sale item whose
// description matches no product is silently ignored — that is what keeps
// synthetic adjustment rows out of inventory. Oversell is permitted: the
// journal is the source of truth and stock may go transiently negative.
type SalesService interface {
	RecordSale(ctx context.Context, sale *Sale) (*Sale, error)
	GetSale(ctx context.Context, id int) (*Sale, error)
	ListSales(ctx context.Context, filter SalesFilter) ([]Sale, error)
	EditSale(ctx context.Context, id int, updated *Sale) (*Sale, error)
	DeleteSale(ctx context.Context, id int) (*Sale, error)
	LatestInvoiceNumber(ctx context.Context) (int, error)
	LinkSalesman(ctx context.Context, invoiceNumber, salesmanID int) error
}

type salesService struct {
	pool *pgxpool.Pool
}

func NewSalesService(pool *pgxpool.Pool) SalesService {
	return &salesService{pool: pool}
}

// nextInvoiceNumber computes max+1 within the caller's transaction. Numbers
// from deleted invoices are never reused. The UNIQUE index on invoice_number
// turns a concurrent max+1 race into a retryable unique violation instead of
// a silent duplicate.
func nextInvoiceNumber(ctx context.Context, tx pgx.Tx) (int, error) {
	var next int
	if err := tx.QueryRow(ctx,
		"SELECT COALESCE(MAX(invoice_number), 0) + 1 FROM sales",
	).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute next invoice number: %w", err)
	}
	return next, nil
}

// RecordSale validates the sale, assigns the next invoice number and persists
// the record atomically, then applies stock decrements as a separate
// best-effort step. A stock-sync failure is logged and never rolls back the
// sale: a recorded sale always wins over inventory consistency.
func (s *salesService) RecordSale(ctx context.Context, sale *Sale) (*Sale, error) {
	identity := IdentityOfSale(sale)
	if !identity.Valid() {
		return nil, &ValidationError{Field: "customer", Reason: "name and phone are required"}
	}
	sale.ComputeTotals()
	if err := sale.ValidateTotals(); err != nil {
		return nil, err
	}
	if sale.InvoiceDate.IsZero() {
		sale.InvoiceDate = time.Now()
	}

	err := withSerialRetry(ctx, func() error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		sale.InvoiceNumber, err = nextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO sales (invoice_number, customer_name, customer_phone,
			                   sub_total, others, discount, total,
			                   received_amount, balance, invoice_date, salesman_id, is_adjustment)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE)
			RETURNING id, created_at
		`, sale.InvoiceNumber, sale.CustomerName, sale.CustomerPhone,
			sale.SubTotal, sale.Others, sale.Discount, sale.Total,
			sale.ReceivedAmount, sale.Balance, sale.InvoiceDate, sale.SalesmanID,
		).Scan(&sale.ID, &sale.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert sale: %w", err)
		}

		if err := insertSaleItems(ctx, tx, sale.ID, sale.Items); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	// Inventory sync happens after the sale is durable. Failures are surfaced
	// to the operator log, not to the caller.
	if err := s.applyStockDeltas(ctx, sale.Items, -1); err != nil {
		log.Printf("WARNING: stock sync failed for invoice %d (sale kept): %v", sale.InvoiceNumber, err)
	}

	return sale, nil
}

func insertSaleItems(ctx context.Context, tx pgx.Tx, saleID int, items []SaleItem) error {
	for i, item := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sale_items (sale_id, description, qty, price, position)
			VALUES ($1, $2, $3, $4, $5)
		`, saleID, item.Description, item.Qty, item.Price, i); err != nil {
			return fmt.Errorf("failed to insert sale item %d: %w", i, err)
		}
	}
	return nil
}

// applyStockDeltas adds sign*qty to remaining for every item with a non-empty
// description and positive quantity. No product match means no-op.
func (s *salesService) applyStockDeltas(ctx context.Context, items []SaleItem, sign int) error {
	for _, item := range items {
		if item.Description == "" || item.Qty <= 0 {
			continue
		}
		if _, err := s.pool.Exec(ctx, `
			UPDATE products SET remaining = remaining + $1 WHERE name = $2
		`, sign*item.Qty, item.Description); err != nil {
			return fmt.Errorf("failed to apply stock delta for %q: %w", item.Description, err)
		}
	}
	return nil
}

func applyStockDeltasTx(ctx context.Context, tx pgx.Tx, items []SaleItem, sign int) error {
	for _, item := range items {
		if item.Description == "" || item.Qty <= 0 {
			continue
		}
		if _, err := tx.Exec(ctx, `
			UPDATE products SET remaining = remaining + $1 WHERE name = $2
		`, sign*item.Qty, item.Description); err != nil {
			return fmt.Errorf("failed to apply stock delta for %q: %w", item.Description, err)
		}
	}
	return nil
}

func (s *salesService) GetSale(ctx context.Context, id int) (*Sale, error) {
	sales, err := s.querySales(ctx, "WHERE s.id = $1", []any{id})
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, fmt.Errorf("sale %d: %w", id, ErrNotFound)
	}
	return &sales[0], nil
}

func (s *salesService) ListSales(ctx context.Context, filter SalesFilter) ([]Sale, error) {
	where := ""
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		if where == "" {
			where = fmt.Sprintf("WHERE %s", fmt.Sprintf(cond, len(args)))
		} else {
			where += fmt.Sprintf(" AND %s", fmt.Sprintf(cond, len(args)))
		}
	}
	if filter.CustomerName != "" {
		add("LOWER(BTRIM(s.customer_name)) = LOWER(BTRIM($%d))", filter.CustomerName)
	}
	if filter.SalesmanID != nil {
		add("s.salesman_id = $%d", *filter.SalesmanID)
	}
	if filter.From != nil {
		add("s.invoice_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("s.invoice_date <= $%d", *filter.To)
	}
	return s.querySales(ctx, where, args)
}

func (s *salesService) querySales(ctx context.Context, where string, args []any) ([]Sale, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT s.id, s.invoice_number, s.customer_name, s.customer_phone,
		       s.sub_total, s.others, s.discount, s.total,
		       s.received_amount, s.balance, s.invoice_date,
		       s.salesman_id, s.is_adjustment, s.created_at
		FROM sales s
		%s
		ORDER BY s.invoice_date DESC, s.id DESC
	`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	index := make(map[int]int)
	var ids []int
	for rows.Next() {
		var sl Sale
		if err := rows.Scan(&sl.ID, &sl.InvoiceNumber, &sl.CustomerName, &sl.CustomerPhone,
			&sl.SubTotal, &sl.Others, &sl.Discount, &sl.Total,
			&sl.ReceivedAmount, &sl.Balance, &sl.InvoiceDate,
			&sl.SalesmanID, &sl.IsAdjustment, &sl.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		index[sl.ID] = len(sales)
		ids = append(ids, sl.ID)
		sales = append(sales, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}
	if len(sales) == 0 {
		return sales, nil
	}

	itemRows, err := s.pool.Query(ctx, `
		SELECT sale_id, description, qty, price
		FROM sale_items
		WHERE sale_id = ANY($1)
		ORDER BY sale_id, position
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var saleID int
		var item SaleItem
		if err := itemRows.Scan(&saleID, &item.Description, &item.Qty, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		i := index[saleID]
		sales[i].Items = append(sales[i].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale items: %w", err)
	}

	return sales, nil
}

// EditSale replaces the full record. Within one transaction it reverts the
// stock effect of every old item, applies every new item, and rewrites the
// sale row and its lines. Equivalent to delete-old + create-new for
// inventory, but the invoice number is kept.
func (s *salesService) EditSale(ctx context.Context, id int, updated *Sale) (*Sale, error) {
	identity := IdentityOfSale(updated)
	if !identity.Valid() {
		return nil, &ValidationError{Field: "customer", Reason: "name and phone are required"}
	}
	updated.ComputeTotals()
	if err := updated.ValidateTotals(); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var invoiceNumber int
	var invoiceDate time.Time
	var createdAt time.Time
	err = tx.QueryRow(ctx,
		"SELECT invoice_number, invoice_date, created_at FROM sales WHERE id = $1 FOR UPDATE",
		id,
	).Scan(&invoiceNumber, &invoiceDate, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock sale %d: %w", id, err)
	}

	oldItems, err := loadSaleItems(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	// Full revert of the old items, then full apply of the new ones. Never a
	// diff: this stays correct when lines are added, removed or reordered.
	if err := applyStockDeltasTx(ctx, tx, oldItems, +1); err != nil {
		return nil, err
	}
	if err := applyStockDeltasTx(ctx, tx, updated.Items, -1); err != nil {
		return nil, err
	}

	if updated.InvoiceDate.IsZero() {
		updated.InvoiceDate = invoiceDate
	}
	_, err = tx.Exec(ctx, `
		UPDATE sales SET customer_name = $1, customer_phone = $2,
		       sub_total = $3, others = $4, discount = $5, total = $6,
		       received_amount = $7, balance = $8, invoice_date = $9, salesman_id = $10
		WHERE id = $11
	`, updated.CustomerName, updated.CustomerPhone,
		updated.SubTotal, updated.Others, updated.Discount, updated.Total,
		updated.ReceivedAmount, updated.Balance, updated.InvoiceDate, updated.SalesmanID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update sale %d: %w", id, err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM sale_items WHERE sale_id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to clear sale items: %w", err)
	}
	if err := insertSaleItems(ctx, tx, id, updated.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sale edit: %w", err)
	}

	updated.ID = id
	updated.InvoiceNumber = invoiceNumber
	updated.CreatedAt = createdAt
	return updated, nil
}

// DeleteSale removes the sale and returns its stock to inventory in one
// transaction. The deleted record is returned for callers that need it.
func (s *salesService) DeleteSale(ctx context.Context, id int) (*Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the row so a concurrent edit cannot interleave with the revert.
	var locked int
	err = tx.QueryRow(ctx, "SELECT id FROM sales WHERE id = $1 FOR UPDATE", id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock sale %d: %w", id, err)
	}

	items, err := loadSaleItems(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := applyStockDeltasTx(ctx, tx, items, +1); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM sales WHERE id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to delete sale %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sale deletion: %w", err)
	}
	return sale, nil
}

func loadSaleItems(ctx context.Context, tx pgx.Tx, saleID int) ([]SaleItem, error) {
	rows, err := tx.Query(ctx, `
		SELECT description, qty, price
		FROM sale_items WHERE sale_id = $1 ORDER BY position
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale items: %w", err)
	}
	defer rows.Close()

	var items []SaleItem
	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.Description, &item.Qty, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// LatestInvoiceNumber returns the highest invoice number, 0 when the journal
// is empty.
func (s *salesService) LatestInvoiceNumber(ctx context.Context) (int, error) {
	var latest int
	if err := s.pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(invoice_number), 0) FROM sales",
	).Scan(&latest); err != nil {
		return 0, fmt.Errorf("failed to fetch latest invoice number: %w", err)
	}
	return latest, nil
}

// LinkSalesman assigns a sale to a salesman by invoice number and credits the
// sale's subtotal to the salesman's running total, atomically. A sale that is
// already linked is a conflict.
func (s *salesService) LinkSalesman(ctx context.Context, invoiceNumber, salesmanID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var saleID int
	var existing *int
	var subTotal decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT id, salesman_id, sub_total FROM sales WHERE invoice_number = $1 FOR UPDATE",
		invoiceNumber,
	).Scan(&saleID, &existing, &subTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("invoice %d: %w", invoiceNumber, ErrNotFound)
		}
		return fmt.Errorf("failed to look up invoice %d: %w", invoiceNumber, err)
	}
	if existing != nil {
		return fmt.Errorf("invoice %d is already assigned to a salesman: %w", invoiceNumber, ErrConflict)
	}

	tag, err := tx.Exec(ctx,
		"UPDATE salesmen SET total_sales = total_sales + $1 WHERE id = $2",
		subTotal, salesmanID)
	if err != nil {
		return fmt.Errorf("failed to credit salesman %d: %w", salesmanID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("salesman %d: %w", salesmanID, ErrNotFound)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE sales SET salesman_id = $1 WHERE id = $2",
		salesmanID, saleID); err != nil {
		return fmt.Errorf("failed to link invoice %d: %w", invoiceNumber, err)
	}

	return tx.Commit(ctx)
}
