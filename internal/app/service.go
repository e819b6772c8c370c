package app

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"retail-backoffice/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic. Implementations must contain
// no HTTP types and no display logic of any kind.
type ApplicationService interface {
	// RecordSale validates and persists a new invoice, assigning the next
	// invoice number and syncing stock best-effort.
	RecordSale(ctx context.Context, req SaleRequest) (*SaleResult, error)

	// GetSale returns one sale with its item lines.
	GetSale(ctx context.Context, id int) (*SaleResult, error)

	// ListSales returns the journal, optionally filtered by customer name,
	// salesman and date window.
	ListSales(ctx context.Context, req ListSalesRequest) (*SaleListResult, error)

	// EditSale replaces a sale in full, reverting the old items' stock effect
	// and applying the new ones. The invoice number is kept.
	EditSale(ctx context.Context, id int, req SaleRequest) (*SaleResult, error)

	// DeleteSale removes a sale and returns its stock to inventory.
	DeleteSale(ctx context.Context, id int) (*SaleResult, error)

	// LatestInvoiceNumber returns the highest invoice number issued, 0 when
	// the journal is empty.
	LatestInvoiceNumber(ctx context.Context) (int, error)

	// LinkSalesman assigns an invoice to a salesman and credits the invoice
	// subtotal to the salesman's running total.
	LinkSalesman(ctx context.Context, invoiceNumber, salesmanID int) error

	// ResolveBalance computes the live ledger position of one identity.
	ResolveBalance(ctx context.Context, name, phone string) (*core.ResolvedBalance, error)

	// AdjustBalance forces an identity's resolved balance to a target value,
	// rewriting the opening balance for registered customers and posting an
	// adjustment sale for normal ones.
	AdjustBalance(ctx context.Context, req AdjustBalanceRequest) (*core.AdjustmentResult, error)

	// RegisterCustomerAtBalance converts a normal customer into a registered
	// one whose opening balance reproduces the target.
	RegisterCustomerAtBalance(ctx context.Context, req RegisterAtBalanceRequest) (*core.Customer, error)

	// ListDebtors returns the recovery view: every identity owing money,
	// sorted by amount, plus summary stats.
	ListDebtors(ctx context.Context) (*RecoveryResult, error)

	// ListCustomers returns registered or normal customers with their journal
	// aggregates.
	ListCustomers(ctx context.Context, normal bool) ([]core.CustomerSummary, error)

	CreateCustomer(ctx context.Context, c *core.Customer) (*core.Customer, error)
	UpdateCustomer(ctx context.Context, id int, c *core.Customer) error
	// UpdateOpeningBalance rewrites a registered customer's opening balance
	// without touching the journal.
	UpdateOpeningBalance(ctx context.Context, id int, opening decimal.Decimal) error
	DeleteCustomer(ctx context.Context, id int) error

	ListProducts(ctx context.Context) ([]core.Product, error)
	CreateProduct(ctx context.Context, p *core.Product) (*core.Product, error)
	UpdateProduct(ctx context.Context, id int, p *core.Product) error
	// SetProductStock writes a product's stock level directly, clamped at
	// zero.
	SetProductStock(ctx context.Context, id, remaining int) error
	DeleteProduct(ctx context.Context, id int) error

	// ListPurchases returns purchases inside the named date filter.
	ListPurchases(ctx context.Context, filter, from, to string) ([]core.Purchase, error)
	CreatePurchase(ctx context.Context, p *core.Purchase) (*core.Purchase, error)
	DeletePurchase(ctx context.Context, id int) error

	// ListExpenses returns expenses inside the named date filter plus their
	// total.
	ListExpenses(ctx context.Context, filter, from, to string) (*ExpenseListResult, error)
	CreateExpense(ctx context.Context, e *core.Expense) (*core.Expense, error)
	UpdateExpense(ctx context.Context, id int, e *core.Expense) error
	DeleteExpense(ctx context.Context, id int) error
	ListExpenseCategories(ctx context.Context) ([]string, error)
	AddExpenseCategory(ctx context.Context, name string) error
	DeleteExpenseCategory(ctx context.Context, name string) error

	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, name string) error

	ListSalesmen(ctx context.Context) ([]core.Salesman, error)
	CreateSalesman(ctx context.Context, m *core.Salesman) (*core.Salesman, error)
	UpdateSalesman(ctx context.Context, id int, m *core.Salesman) error
	DeleteSalesman(ctx context.Context, id int) error

	ListVendors(ctx context.Context) ([]core.Vendor, error)
	CreateVendor(ctx context.Context, v *core.Vendor) (*core.Vendor, error)
	UpdateVendor(ctx context.Context, id int, v *core.Vendor) error
	DeleteVendor(ctx context.Context, id int) error

	// GetAnalytics aggregates the journals into the dashboard snapshot for
	// the named date filter.
	GetAnalytics(ctx context.Context, filter, from, to string) (*core.AnalyticsReport, error)

	// WriteBackup streams the flattened sales journal as CSV or XLSX.
	WriteBackup(ctx context.Context, w io.Writer, format, filter, from, to string) error

	// BackupStats returns per-table row counts.
	BackupStats(ctx context.Context) (*core.BackupStats, error)

	// Login checks credentials and returns the authenticated user.
	Login(ctx context.Context, login, password string) (*core.User, error)

	GetProfile(ctx context.Context) (*core.User, error)
	UpdateProfile(ctx context.Context, u *core.User) (*core.User, error)
	ChangePassword(ctx context.Context, current, next string) error
}
