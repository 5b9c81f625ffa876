// Package service internal/application/service/ledger_service.go
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pacmangol/fxledger/internal/domain/entity"
	"github.com/pacmangol/fxledger/internal/domain/repository"
	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
)

// Reconciliation holds both reconciliation figures for an invoice
type Reconciliation struct {
	InvoiceNumber   string
	Difference      float64
	RemainingAmount float64
}

// LedgerService orchestrates invoice/payment storage and reconciliation
type LedgerService struct {
	invoices       repository.InvoiceRepository
	payments       repository.PaymentRepository
	reconciliation *ReconciliationService
	logger         logger.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(invoices repository.InvoiceRepository, payments repository.PaymentRepository,
	reconciliation *ReconciliationService, log logger.Logger) *LedgerService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &LedgerService{
		invoices:       invoices,
		payments:       payments,
		reconciliation: reconciliation,
		logger:         log,
	}
}

// CreateInvoice validates and stores a new invoice
func (s *LedgerService) CreateInvoice(ctx context.Context, invoice *entity.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return err
	}

	if err := s.invoices.Store(ctx, invoice); err != nil {
		return fmt.Errorf("failed to store invoice: %w", err)
	}

	s.logger.Info("Invoice created", map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"amount":         invoice.Amount,
		"currency":       invoice.Currency,
		"issue_date":     invoice.IssueDate.Format("2006-01-02"),
	})

	return nil
}

// GetInvoice retrieves an invoice by number
func (s *LedgerService) GetInvoice(ctx context.Context, number string) (*entity.Invoice, error) {
	return s.invoices.FindByNumber(ctx, number)
}

// RecordPayment validates and stores a payment, assigning it an ID
func (s *LedgerService) RecordPayment(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}

	if err := payment.Validate(); err != nil {
		return err
	}

	if err := s.payments.Store(ctx, payment); err != nil {
		return fmt.Errorf("failed to store payment: %w", err)
	}

	s.logger.Info("Payment recorded", map[string]interface{}{
		"payment_id":     payment.ID,
		"invoice_number": payment.InvoiceNumber,
		"amount":         payment.Amount,
		"currency":       payment.Currency,
		"payment_date":   payment.PaymentDate.Format("2006-01-02"),
	})

	return nil
}

// Reconcile computes both reconciliation figures for an invoice against all
// payments currently referencing it. An unresolvable exchange rate surfaces
// as an error wrapping ErrRateUnavailable, so callers can map it to their
// own unavailability signal.
func (s *LedgerService) Reconcile(ctx context.Context, invoiceNumber string) (*Reconciliation, error) {
	invoice, err := s.invoices.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.ListByInvoice(ctx, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	difference, err := s.reconciliation.CalculateDifference(ctx, invoice, payments)
	if err != nil {
		return nil, err
	}

	remaining, err := s.reconciliation.CalculateRemainingAmount(ctx, invoice, payments)
	if err != nil {
		return nil, err
	}

	return &Reconciliation{
		InvoiceNumber:   invoiceNumber,
		Difference:      difference,
		RemainingAmount: remaining,
	}, nil
}
