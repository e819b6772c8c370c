package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"retail-backoffice/internal/core"
)

type appService struct {
	sales       core.SalesService
	balances    core.BalanceService
	adjustments core.AdjustmentEngine
	customers   core.CustomerService
	products    core.ProductService
	purchases   core.PurchaseService
	expenses    core.ExpenseService
	catalog     core.CatalogService
	salesmen    core.SalesmanService
	vendors     core.VendorService
	reporting   core.ReportingService
	export      core.ExportService
	users       core.UserService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	sales core.SalesService,
	balances core.BalanceService,
	adjustments core.AdjustmentEngine,
	customers core.CustomerService,
	products core.ProductService,
	purchases core.PurchaseService,
	expenses core.ExpenseService,
	catalog core.CatalogService,
	salesmen core.SalesmanService,
	vendors core.VendorService,
	reporting core.ReportingService,
	export core.ExportService,
	users core.UserService,
) ApplicationService {
	return &appService{
		sales:       sales,
		balances:    balances,
		adjustments: adjustments,
		customers:   customers,
		products:    products,
		purchases:   purchases,
		expenses:    expenses,
		catalog:     catalog,
		salesmen:    salesmen,
		vendors:     vendors,
		reporting:   reporting,
		export:      export,
		users:       users,
	}
}

func saleFromRequest(req SaleRequest) *core.Sale {
	sale := &core.Sale{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Items:          req.Items,
		Others:         req.Others,
		Discount:       req.Discount,
		ReceivedAmount: req.ReceivedAmount,
		SalesmanID:     req.SalesmanID,
	}
	if req.InvoiceDate != nil {
		sale.InvoiceDate = *req.InvoiceDate
	}
	return sale
}

func (s *appService) RecordSale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	sale, err := s.sales.RecordSale(ctx, saleFromRequest(req))
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) GetSale(ctx context.Context, id int) (*SaleResult, error) {
	sale, err := s.sales.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) ListSales(ctx context.Context, req ListSalesRequest) (*SaleListResult, error) {
	window, err := core.WindowForFilter(req.Filter, time.Now(), req.From, req.To)
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.ListSales(ctx, core.SalesFilter{
		CustomerName: req.CustomerName,
		SalesmanID:   req.SalesmanID,
		From:         window.From,
		To:           window.To,
	})
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *appService) EditSale(ctx context.Context, id int, req SaleRequest) (*SaleResult, error) {
	sale, err := s.sales.EditSale(ctx, id, saleFromRequest(req))
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) DeleteSale(ctx context.Context, id int) (*SaleResult, error) {
	sale, err := s.sales.DeleteSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) LatestInvoiceNumber(ctx context.Context) (int, error) {
	return s.sales.LatestInvoiceNumber(ctx)
}

func (s *appService) LinkSalesman(ctx context.Context, invoiceNumber, salesmanID int) error {
	return s.sales.LinkSalesman(ctx, invoiceNumber, salesmanID)
}

func (s *appService) ResolveBalance(ctx context.Context, name, phone string) (*core.ResolvedBalance, error) {
	return s.balances.Resolve(ctx, core.NewIdentity(name, phone))
}

func (s *appService) AdjustBalance(ctx context.Context, req AdjustBalanceRequest) (*core.AdjustmentResult, error) {
	return s.adjustments.AdjustBalance(ctx, core.NewIdentity(req.Name, req.Phone), req.Balance)
}

func (s *appService) RegisterCustomerAtBalance(ctx context.Context, req RegisterAtBalanceRequest) (*core.Customer, error) {
	return s.adjustments.RegisterAtBalance(ctx, core.NewIdentity(req.Name, req.Phone), req.City, req.Balance)
}

func (s *appService) ListDebtors(ctx context.Context) (*RecoveryResult, error) {
	debtors, stats, err := s.balances.ListDebtors(ctx)
	if err != nil {
		return nil, err
	}
	return &RecoveryResult{Debtors: debtors, Stats: stats}, nil
}

func (s *appService) ListCustomers(ctx context.Context, normal bool) ([]core.CustomerSummary, error) {
	if normal {
		return s.customers.ListNormal(ctx)
	}
	return s.customers.ListRegistered(ctx)
}

func (s *appService) CreateCustomer(ctx context.Context, c *core.Customer) (*core.Customer, error) {
	return s.customers.Create(ctx, c)
}

func (s *appService) UpdateCustomer(ctx context.Context, id int, c *core.Customer) error {
	return s.customers.Update(ctx, id, c)
}

func (s *appService) UpdateOpeningBalance(ctx context.Context, id int, opening decimal.Decimal) error {
	return s.customers.UpdateOpeningBalance(ctx, id, opening)
}

func (s *appService) DeleteCustomer(ctx context.Context, id int) error {
	return s.customers.Delete(ctx, id)
}

func (s *appService) ListProducts(ctx context.Context) ([]core.Product, error) {
	return s.products.List(ctx)
}

func (s *appService) CreateProduct(ctx context.Context, p *core.Product) (*core.Product, error) {
	return s.products.Create(ctx, p)
}

func (s *appService) UpdateProduct(ctx context.Context, id int, p *core.Product) error {
	return s.products.Update(ctx, id, p)
}

func (s *appService) SetProductStock(ctx context.Context, id, remaining int) error {
	return s.products.SetRemaining(ctx, id, remaining)
}

func (s *appService) DeleteProduct(ctx context.Context, id int) error {
	return s.products.Delete(ctx, id)
}

func (s *appService) ListPurchases(ctx context.Context, filter, from, to string) ([]core.Purchase, error) {
	window, err := core.WindowForFilter(filter, time.Now(), from, to)
	if err != nil {
		return nil, err
	}
	return s.purchases.List(ctx, window)
}

func (s *appService) CreatePurchase(ctx context.Context, p *core.Purchase) (*core.Purchase, error) {
	return s.purchases.Create(ctx, p)
}

func (s *appService) DeletePurchase(ctx context.Context, id int) error {
	return s.purchases.Delete(ctx, id)
}

func (s *appService) ListExpenses(ctx context.Context, filter, from, to string) (*ExpenseListResult, error) {
	window, err := core.WindowForFilter(filter, time.Now(), from, to)
	if err != nil {
		return nil, err
	}
	expenses, total, err := s.expenses.List(ctx, window)
	if err != nil {
		return nil, err
	}
	return &ExpenseListResult{Expenses: expenses, TotalAmount: total}, nil
}

func (s *appService) CreateExpense(ctx context.Context, e *core.Expense) (*core.Expense, error) {
	return s.expenses.Create(ctx, e)
}

func (s *appService) UpdateExpense(ctx context.Context, id int, e *core.Expense) error {
	return s.expenses.Update(ctx, id, e)
}

func (s *appService) DeleteExpense(ctx context.Context, id int) error {
	return s.expenses.Delete(ctx, id)
}

func (s *appService) ListExpenseCategories(ctx context.Context) ([]string, error) {
	return s.expenses.ListCategories(ctx)
}

func (s *appService) AddExpenseCategory(ctx context.Context, name string) error {
	return s.expenses.AddCategory(ctx, name)
}

func (s *appService) DeleteExpenseCategory(ctx context.Context, name string) error {
	return s.expenses.DeleteCategory(ctx, name)
}

func (s *appService) ListCategories(ctx context.Context) ([]string, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *appService) AddCategory(ctx context.Context, name string) error {
	return s.catalog.AddCategory(ctx, name)
}

func (s *appService) DeleteCategory(ctx context.Context, name string) error {
	return s.catalog.DeleteCategory(ctx, name)
}

func (s *appService) ListSalesmen(ctx context.Context) ([]core.Salesman, error) {
	return s.salesmen.List(ctx)
}

func (s *appService) CreateSalesman(ctx context.Context, m *core.Salesman) (*core.Salesman, error) {
	return s.salesmen.Create(ctx, m)
}

func (s *appService) UpdateSalesman(ctx context.Context, id int, m *core.Salesman) error {
	return s.salesmen.Update(ctx, id, m)
}

func (s *appService) DeleteSalesman(ctx context.Context, id int) error {
	return s.salesmen.Delete(ctx, id)
}

func (s *appService) ListVendors(ctx context.Context) ([]core.Vendor, error) {
	return s.vendors.List(ctx)
}

func (s *appService) CreateVendor(ctx context.Context, v *core.Vendor) (*core.Vendor, error) {
	return s.vendors.Create(ctx, v)
}

func (s *appService) UpdateVendor(ctx context.Context, id int, v *core.Vendor) error {
	return s.vendors.Update(ctx, id, v)
}

func (s *appService) DeleteVendor(ctx context.Context, id int) error {
	return s.vendors.Delete(ctx, id)
}

func (s *appService) GetAnalytics(ctx context.Context, filter, from, to string) (*core.AnalyticsReport, error) {
	window, err := core.WindowForFilter(filter, time.Now(), from, to)
	if err != nil {
		return nil, err
	}
	return s.reporting.Report(ctx, window)
}

func (s *appService) WriteBackup(ctx context.Context, w io.Writer, format, filter, from, to string) error {
	window, err := core.WindowForFilter(filter, time.Now(), from, to)
	if err != nil {
		return err
	}
	switch format {
	case "", "csv":
		return s.export.WriteCSV(ctx, w, window)
	case "xlsx":
		return s.export.WriteXLSX(ctx, w, window)
	default:
		return &core.ValidationError{Field: "format", Reason: fmt.Sprintf("unsupported backup format %q", format)}
	}
}

func (s *appService) BackupStats(ctx context.Context) (*core.BackupStats, error) {
	return s.export.Stats(ctx)
}

func (s *appService) Login(ctx context.Context, login, password string) (*core.User, error) {
	return s.users.Authenticate(ctx, login, password)
}

func (s *appService) GetProfile(ctx context.Context) (*core.User, error) {
	return s.users.GetProfile(ctx)
}

func (s *appService) UpdateProfile(ctx context.Context, u *core.User) (*core.User, error) {
	return s.users.UpdateProfile(ctx, u)
}

func (s *appService) ChangePassword(ctx context.Context, current, next string) error {
	return s.users.ChangePassword(ctx, current, next)
}
