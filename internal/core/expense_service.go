package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ExpenseService manages expense entries and their name-keyed categories.
type ExpenseService interface {
	List(ctx context.Context, window DateWindow) ([]Expense, decimal.Decimal, error)
	Create(ctx context.Context, e *Expense) (*Expense, error)
	Update(ctx context.Context, id int, e *Expense) error
	Delete(ctx context.Context, id int) error
	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, name string) error
}

type expenseService struct {
	pool *pgxpool.Pool
}

func NewExpenseService(pool *pgxpool.Pool) ExpenseService {
	return &expenseService{pool: pool}
}

// List returns the expenses inside the window plus their total amount.
func (s *expenseService) List(ctx context.Context, window DateWindow) ([]Expense, decimal.Decimal, error) {
	where := ""
	var args []any
	if window.From != nil {
		args = append(args, *window.From)
		where = fmt.Sprintf("WHERE expense_date >= $%d", len(args))
	}
	if window.To != nil {
		args = append(args, *window.To)
		if where == "" {
			where = fmt.Sprintf("WHERE expense_date <= $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND expense_date <= $%d", len(args))
		}
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, title, category, amount, expense_date, notes, created_at
		FROM expenses
		%s
		ORDER BY expense_date DESC, id DESC
	`, where), args...)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	total := decimal.Zero
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Title, &e.Category, &e.Amount,
			&e.ExpenseDate, &e.Notes, &e.CreatedAt); err != nil {
			return nil, decimal.Zero, fmt.Errorf("failed to scan expense: %w", err)
		}
		total = total.Add(e.Amount)
		expenses = append(expenses, e)
	}
	return expenses, total, rows.Err()
}

func (s *expenseService) Create(ctx context.Context, e *Expense) (*Expense, error) {
	if e.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "required"}
	}
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = time.Now()
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO expenses (title, category, amount, expense_date, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, e.Title, e.Category, e.Amount, e.ExpenseDate, e.Notes).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}
	return e, nil
}

func (s *expenseService) Update(ctx context.Context, id int, e *Expense) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE expenses SET title = $1, category = $2, amount = $3, expense_date = $4, notes = $5
		WHERE id = $6
	`, e.Title, e.Category, e.Amount, e.ExpenseDate, e.Notes, id)
	if err != nil {
		return fmt.Errorf("failed to update expense %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *expenseService) Delete(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *expenseService) ListCategories(ctx context.Context) ([]string, error) {
	return listNames(ctx, s.pool, "expense_categories")
}

func (s *expenseService) AddCategory(ctx context.Context, name string) error {
	return addName(ctx, s.pool, "expense_categories", name)
}

func (s *expenseService) DeleteCategory(ctx context.Context, name string) error {
	return deleteName(ctx, s.pool, "expense_categories", name)
}
