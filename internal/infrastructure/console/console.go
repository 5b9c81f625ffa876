// Package console implements the interactive ledger session: it collects and
// validates typed input, drives the reconciliation engine once per entry, and
// persists the spreadsheet ledger when the session ends.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pacmangol/fxledger/internal/application/service"
	"github.com/pacmangol/fxledger/internal/domain/entity"
	domain "github.com/pacmangol/fxledger/internal/domain/service"
	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
	"github.com/pacmangol/fxledger/internal/infrastructure/xlsx"
)

// maxPromptAttempts bounds retries for currency and date prompts before the
// current entry is abandoned
const maxPromptAttempts = 3

// App is the interactive console application
type App struct {
	in             *bufio.Scanner
	out            io.Writer
	reconciliation *service.ReconciliationService
	store          *xlsx.LedgerStore
	currencies     []string
	logger         logger.Logger

	invoices []entity.Invoice
	payments []entity.Payment
}

// NewApp creates a new console application. currencies is the accepted
// currency set; input outside it is rejected at the prompt.
func NewApp(in io.Reader, out io.Writer, reconciliation *service.ReconciliationService,
	store *xlsx.LedgerStore, currencies []string, log logger.Logger) *App {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &App{
		in:             bufio.NewScanner(in),
		out:            out,
		reconciliation: reconciliation,
		store:          store,
		currencies:     currencies,
		logger:         log,
	}
}

// Run loads the ledger, loops over entries until the user declines another
// one or input ends, then rewrites the ledger files.
func (a *App) Run(ctx context.Context) error {
	invoices, payments, err := a.store.Load()
	if err != nil {
		return err
	}
	a.invoices = invoices
	a.payments = payments

	for {
		a.enterPayment(ctx)

		again, ok := a.promptYesNo("Record another invoice? (yes/no): ")
		if !ok || !again {
			break
		}
	}

	return a.store.Save(a.invoices, a.payments)
}

// enterPayment handles one loop iteration: a payment entry, the matching or
// newly created invoice, and both reconciliation figures. Abandoning a prompt
// abandons the entry; anything already appended stays appended.
func (a *App) enterPayment(ctx context.Context) {
	number, ok := a.promptLine("Invoice number: ")
	if !ok {
		return
	}

	issueDate, ok := a.promptDate("invoice issue date")
	if !ok {
		return
	}

	paymentDate, ok := a.promptDateAfter("payment date", issueDate)
	if !ok {
		return
	}

	amount, ok := a.promptAmount("Payment amount: ")
	if !ok {
		return
	}

	currency, ok := a.promptCurrency()
	if !ok {
		return
	}

	a.payments = append(a.payments, entity.Payment{
		ID:            uuid.NewString(),
		InvoiceNumber: number,
		Amount:        amount,
		Currency:      currency,
		PaymentDate:   paymentDate,
	})

	for i := range a.invoices {
		if a.invoices[i].InvoiceNumber == number {
			a.printFigures(ctx, &a.invoices[i])
			return
		}
	}

	invoiceAmount, ok := a.promptAmount("Invoice amount: ")
	if !ok {
		return
	}

	invoiceCurrency, ok := a.promptCurrency()
	if !ok {
		return
	}

	a.invoices = append(a.invoices, entity.Invoice{
		InvoiceNumber: number,
		Amount:        invoiceAmount,
		Currency:      invoiceCurrency,
		IssueDate:     issueDate,
	})

	a.printFigures(ctx, &a.invoices[len(a.invoices)-1])
}

func (a *App) printFigures(ctx context.Context, invoice *entity.Invoice) {
	difference, err := a.reconciliation.CalculateDifference(ctx, invoice, a.payments)
	a.printFigure("FX difference for invoice "+invoice.InvoiceNumber, difference, err)

	remaining, err := a.reconciliation.CalculateRemainingAmount(ctx, invoice, a.payments)
	a.printFigure("Remaining amount", remaining, err)
}

func (a *App) printFigure(label string, value float64, err error) {
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "%s: %v\n", label, value)
	case errors.Is(err, domain.ErrRateUnavailable):
		fmt.Fprintf(a.out, "%s: unavailable (no exchange rate found)\n", label)
	default:
		a.logger.Error("Reconciliation failed", map[string]interface{}{
			"error": err.Error(),
		})
		fmt.Fprintf(a.out, "%s: unavailable\n", label)
	}
}
