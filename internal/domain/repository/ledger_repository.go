// Package repository internal/domain/repository/ledger_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/pacmangol/fxledger/internal/domain/entity"
)

var (
	// ErrInvoiceNotFound is returned when no invoice exists for a number
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrDuplicateInvoice is returned when storing an invoice whose number
	// is already present in a store that enforces uniqueness
	ErrDuplicateInvoice = errors.New("invoice number already exists")
)

// InvoiceRepository defines the interface for invoice storage
type InvoiceRepository interface {
	// Store saves an invoice
	Store(ctx context.Context, invoice *entity.Invoice) error

	// FindByNumber retrieves an invoice by its invoice number
	FindByNumber(ctx context.Context, number string) (*entity.Invoice, error)

	// List returns all invoices in the ledger
	List(ctx context.Context) ([]entity.Invoice, error)
}

// PaymentRepository defines the interface for payment storage
type PaymentRepository interface {
	// Store saves a payment
	Store(ctx context.Context, payment *entity.Payment) error

	// ListByInvoice returns all payments referencing an invoice number.
	// The order is implementation defined.
	ListByInvoice(ctx context.Context, invoiceNumber string) ([]entity.Payment, error)

	// List returns all payments in the ledger
	List(ctx context.Context) ([]entity.Payment, error)
}
