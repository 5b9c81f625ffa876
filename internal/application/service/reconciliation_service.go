// Package service internal/application/service/reconciliation_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pacmangol/fxledger/internal/domain/entity"
	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

// Resolver resolves the bid rate for a currency on a date
type Resolver interface {
	Resolve(ctx context.Context, currency string, date time.Time) (float64, error)
}

// ReconciliationService computes FX differences and remaining balances for
// invoices against their payments. Both computations are stateless folds over
// the payment collection; payments referencing other invoices are skipped.
type ReconciliationService struct {
	resolver Resolver
	logger   logger.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(resolver Resolver, log logger.Logger) *ReconciliationService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ReconciliationService{
		resolver: resolver,
		logger:   log,
	}
}

// CalculateDifference returns the cumulative exchange-rate difference between
// the invoice's issue date and each payment's date, as a sum of per-payment
// deltas each rounded to 4 decimal places. Both rates are resolved for the
// invoice's currency; the payment's own currency field is deliberately not
// consulted here. An unresolvable rate aborts the whole computation.
func (s *ReconciliationService) CalculateDifference(ctx context.Context, invoice *entity.Invoice, payments []entity.Payment) (float64, error) {
	total := decimal.Zero

	for _, payment := range payments {
		if payment.InvoiceNumber != invoice.InvoiceNumber {
			continue
		}

		invoiceRate, err := s.resolver.Resolve(ctx, invoice.Currency, invoice.IssueDate)
		if err != nil {
			return 0, fmt.Errorf("issue-date rate for invoice %s: %w", invoice.InvoiceNumber, err)
		}

		paymentRate, err := s.resolver.Resolve(ctx, invoice.Currency, payment.PaymentDate)
		if err != nil {
			return 0, fmt.Errorf("payment-date rate for invoice %s: %w", invoice.InvoiceNumber, err)
		}

		s.logger.Debug("Rates for difference term", map[string]interface{}{
			"invoice_number": invoice.InvoiceNumber,
			"invoice_rate":   invoiceRate,
			"payment_rate":   paymentRate,
			"payment_date":   payment.PaymentDate.Format("2006-01-02"),
		})

		total = total.Add(decimal.NewFromFloat(paymentRate - invoiceRate).Round(4))
	}

	return total.InexactFloat64(), nil
}

// CalculateRemainingAmount returns the invoice value in the home currency
// minus all matching payments converted to the home currency, each at the
// rate of its own payment date and its own currency, rounded to 2 decimal
// places. A negative result means the invoice was overpaid. An unresolvable
// rate aborts the whole computation.
func (s *ReconciliationService) CalculateRemainingAmount(ctx context.Context, invoice *entity.Invoice, payments []entity.Payment) (float64, error) {
	totalPaid := decimal.Zero

	for _, payment := range payments {
		if payment.InvoiceNumber != invoice.InvoiceNumber {
			continue
		}

		paymentRate, err := s.resolver.Resolve(ctx, payment.Currency, payment.PaymentDate)
		if err != nil {
			return 0, fmt.Errorf("payment-date rate for invoice %s: %w", invoice.InvoiceNumber, err)
		}

		totalPaid = totalPaid.Add(
			decimal.NewFromFloat(payment.Amount).Mul(decimal.NewFromFloat(paymentRate)))
	}

	invoiceRate, err := s.resolver.Resolve(ctx, invoice.Currency, invoice.IssueDate)
	if err != nil {
		return 0, fmt.Errorf("issue-date rate for invoice %s: %w", invoice.InvoiceNumber, err)
	}

	remaining := decimal.NewFromFloat(invoice.Amount).
		Mul(decimal.NewFromFloat(invoiceRate)).
		Sub(totalPaid).
		Round(2)

	return remaining.InexactFloat64(), nil
}
