// Package xlsx persists the ledger as two spreadsheet files, one for
// invoices and one for payments. The files are read once at startup and
// fully rewritten at shutdown; rows are never appended incrementally.
package xlsx

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pacmangol/fxledger/internal/domain/entity"
	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
	"github.com/xuri/excelize/v2"
)

const (
	invoiceSheet = "Invoices"
	paymentSheet = "Payments"

	dateLayout = "2006-01-02"
)

// LedgerStore reads and writes the spreadsheet ledger
type LedgerStore struct {
	invoicesPath string
	paymentsPath string
	logger       logger.Logger
}

// NewLedgerStore creates a new spreadsheet ledger store
func NewLedgerStore(invoicesPath, paymentsPath string, log logger.Logger) *LedgerStore {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &LedgerStore{
		invoicesPath: invoicesPath,
		paymentsPath: paymentsPath,
		logger:       log,
	}
}

// Load reads both ledger files. A missing file yields an empty collection,
// so a first run starts from an empty ledger.
func (s *LedgerStore) Load() ([]entity.Invoice, []entity.Payment, error) {
	invoices, err := s.loadInvoices()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	payments, err := s.loadPayments()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load payments: %w", err)
	}

	s.logger.Info("Ledger loaded", map[string]interface{}{
		"invoices": len(invoices),
		"payments": len(payments),
	})

	return invoices, payments, nil
}

// Save rewrites both ledger files from scratch
func (s *LedgerStore) Save(invoices []entity.Invoice, payments []entity.Payment) error {
	invoiceRows := make([][]interface{}, 0, len(invoices))
	for _, inv := range invoices {
		invoiceRows = append(invoiceRows, []interface{}{
			inv.InvoiceNumber, inv.Amount, inv.Currency, inv.IssueDate.Format(dateLayout),
		})
	}

	if err := writeSheet(s.invoicesPath, invoiceSheet,
		[]string{"invoice_number", "amount", "currency", "issue_date"}, invoiceRows); err != nil {
		return fmt.Errorf("failed to save invoices: %w", err)
	}

	paymentRows := make([][]interface{}, 0, len(payments))
	for _, p := range payments {
		paymentRows = append(paymentRows, []interface{}{
			p.InvoiceNumber, p.Amount, p.Currency, p.PaymentDate.Format(dateLayout),
		})
	}

	if err := writeSheet(s.paymentsPath, paymentSheet,
		[]string{"invoice_number", "amount", "currency", "payment_date"}, paymentRows); err != nil {
		return fmt.Errorf("failed to save payments: %w", err)
	}

	s.logger.Info("Ledger saved", map[string]interface{}{
		"invoices": len(invoices),
		"payments": len(payments),
	})

	return nil
}

func (s *LedgerStore) loadInvoices() ([]entity.Invoice, error) {
	rows, err := readSheet(s.invoicesPath)
	if err != nil || rows == nil {
		return nil, err
	}

	var invoices []entity.Invoice
	for i, row := range rows {
		number, amount, currency, date, err := parseLedgerRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		invoices = append(invoices, entity.Invoice{
			InvoiceNumber: number,
			Amount:        amount,
			Currency:      currency,
			IssueDate:     date,
		})
	}

	return invoices, nil
}

func (s *LedgerStore) loadPayments() ([]entity.Payment, error) {
	rows, err := readSheet(s.paymentsPath)
	if err != nil || rows == nil {
		return nil, err
	}

	var payments []entity.Payment
	for i, row := range rows {
		number, amount, currency, date, err := parseLedgerRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		payments = append(payments, entity.Payment{
			InvoiceNumber: number,
			Amount:        amount,
			Currency:      currency,
			PaymentDate:   date,
		})
	}

	return payments, nil
}

// readSheet returns the data rows of the first sheet, without the header
// row, or nil when the file does not exist
func readSheet(path string) ([][]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	return rows[1:], nil
}

func parseLedgerRow(row []string) (string, float64, string, time.Time, error) {
	if len(row) < 4 {
		return "", 0, "", time.Time{}, fmt.Errorf("expected 4 columns, got %d", len(row))
	}

	amount, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return "", 0, "", time.Time{}, fmt.Errorf("invalid amount %q: %w", row[1], err)
	}

	date, err := time.Parse(dateLayout, row[3])
	if err != nil {
		return "", 0, "", time.Time{}, fmt.Errorf("invalid date %q: %w", row[3], err)
	}

	return row[0], amount, row[2], date, nil
}

func writeSheet(path, sheet string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
