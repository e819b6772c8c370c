package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// backupHeader is the column layout of the sales backup. One output row per
// sale item; the invoice-level columns repeat on every row of the invoice.
var backupHeader = []string{
	"Invoice #", "Date", "Customer Name", "Customer Phone",
	"Item Description", "Quantity", "Price", "Item Total",
	"Sub Total", "Discount", "Received Amount", "Balance",
}

// BackupStats are row counts per table, reported before an export so the
// operator can sanity-check the download.
type BackupStats struct {
	Customers int `json:"customers"`
	Sales     int `json:"sales"`
	Products  int `json:"products"`
	Purchases int `json:"purchases"`
	Expenses  int `json:"expenses"`
	Salesmen  int `json:"salesmen"`
	Vendors   int `json:"vendors"`
}

// ExportService streams the sales journal out as a flat spreadsheet, one row
// per sale item, in CSV or XLSX form.
type ExportService interface {
	WriteCSV(ctx context.Context, w io.Writer, window DateWindow) error
	WriteXLSX(ctx context.Context, w io.Writer, window DateWindow) error
	Stats(ctx context.Context) (*BackupStats, error)
}

type exportService struct {
	pool  *pgxpool.Pool
	sales SalesService
}

func NewExportService(pool *pgxpool.Pool, sales SalesService) ExportService {
	return &exportService{pool: pool, sales: sales}
}

// flattenSales turns the sales journal into spreadsheet rows. An invoice with
// no items still produces one row so its totals are never dropped from the
// backup.
func flattenSales(sales []Sale) [][]string {
	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		base := func(desc, qty, price, itemTotal string) []string {
			return []string{
				fmt.Sprintf("%d", s.InvoiceNumber),
				s.InvoiceDate.Format("2006-01-02"),
				s.CustomerName,
				s.CustomerPhone,
				desc, qty, price, itemTotal,
				s.SubTotal.StringFixed(2),
				s.Discount.StringFixed(2),
				s.ReceivedAmount.StringFixed(2),
				s.Balance.StringFixed(2),
			}
		}
		if len(s.Items) == 0 {
			rows = append(rows, base("", "", "", ""))
			continue
		}
		for _, item := range s.Items {
			itemTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Qty)))
			rows = append(rows, base(
				item.Description,
				fmt.Sprintf("%d", item.Qty),
				item.Price.StringFixed(2),
				itemTotal.StringFixed(2),
			))
		}
	}
	return rows
}

func (s *exportService) exportRows(ctx context.Context, window DateWindow) ([][]string, error) {
	sales, err := s.sales.ListSales(ctx, SalesFilter{From: window.From, To: window.To})
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for export: %w", err)
	}
	return flattenSales(sales), nil
}

func (s *exportService) WriteCSV(ctx context.Context, w io.Writer, window DateWindow) error {
	rows, err := s.exportRows(ctx, window)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(backupHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *exportService) WriteXLSX(ctx context.Context, w io.Writer, window DateWindow) error {
	rows, err := s.exportRows(ctx, window)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sales"
	f.SetSheetName("Sheet1", sheet)

	header := make([]any, len(backupHeader))
	for i, h := range backupHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write xlsx row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (s *exportService) Stats(ctx context.Context) (*BackupStats, error) {
	stats := &BackupStats{}
	counts := []struct {
		table string
		dest  *int
	}{
		{"customers", &stats.Customers},
		{"sales", &stats.Sales},
		{"products", &stats.Products},
		{"purchases", &stats.Purchases},
		{"expenses", &stats.Expenses},
		{"salesmen", &stats.Salesmen},
		{"vendors", &stats.Vendors},
	}
	for _, c := range counts {
		if err := s.pool.QueryRow(ctx,
			fmt.Sprintf("SELECT COUNT(*) FROM %s", c.table)).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}
	return stats, nil
}
