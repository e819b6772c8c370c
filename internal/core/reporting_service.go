package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AnalyticsReport is the dashboard snapshot: windowed flow totals plus the
// live receivables figure.
type AnalyticsReport struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalReceived  decimal.Decimal `json:"totalReceived"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	TotalPurchases decimal.Decimal `json:"totalPurchases"`
	SalesCount     int             `json:"salesCount"`
	ExpenseCount   int             `json:"expenseCount"`
	PurchaseCount  int             `json:"purchaseCount"`
	TotalDues      decimal.Decimal `json:"totalDues"`
}

// ReportingService aggregates the journals into dashboard numbers. Revenue,
// expenses and purchases respect the date window; totalDues is always the
// live lifetime figure, computed with the same resolution the recovery view
// uses.
type ReportingService interface {
	Report(ctx context.Context, window DateWindow) (*AnalyticsReport, error)
}

type reportingService struct {
	pool     *pgxpool.Pool
	balances BalanceService
}

func NewReportingService(pool *pgxpool.Pool, balances BalanceService) ReportingService {
	return &reportingService{pool: pool, balances: balances}
}

func (s *reportingService) Report(ctx context.Context, window DateWindow) (*AnalyticsReport, error) {
	report := &AnalyticsReport{
		TotalRevenue:   decimal.Zero,
		TotalReceived:  decimal.Zero,
		TotalExpenses:  decimal.Zero,
		TotalPurchases: decimal.Zero,
		TotalDues:      decimal.Zero,
	}

	if err := s.windowedRow(ctx, window, `
		SELECT COALESCE(SUM(total), 0), COALESCE(SUM(received_amount), 0), COUNT(*)
		FROM sales WHERE is_adjustment = FALSE`, "invoice_date",
		&report.TotalRevenue, &report.TotalReceived, &report.SalesCount); err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	if err := s.windowedRow(ctx, window, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses WHERE TRUE`, "expense_date",
		&report.TotalExpenses, &report.ExpenseCount); err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}

	if err := s.windowedRow(ctx, window, `
		SELECT COALESCE(SUM(total_cost), 0), COUNT(*)
		FROM purchases WHERE TRUE`, "purchase_date",
		&report.TotalPurchases, &report.PurchaseCount); err != nil {
		return nil, fmt.Errorf("failed to aggregate purchases: %w", err)
	}

	_, stats, err := s.balances.ListDebtors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dues: %w", err)
	}
	report.TotalDues = stats.TotalDues

	return report, nil
}

// windowedRow runs an aggregate query whose WHERE clause already exists,
// appending the window bounds on the named date column.
func (s *reportingService) windowedRow(ctx context.Context, window DateWindow, query, dateColumn string, dest ...any) error {
	var args []any
	if window.From != nil {
		args = append(args, *window.From)
		query += fmt.Sprintf(" AND %s >= $%d", dateColumn, len(args))
	}
	if window.To != nil {
		args = append(args, *window.To)
		query += fmt.Sprintf(" AND %s <= $%d", dateColumn, len(args))
	}
	return s.pool.QueryRow(ctx, query, args...).Scan(dest...)
}
