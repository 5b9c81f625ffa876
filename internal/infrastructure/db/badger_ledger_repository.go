package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/dgraph-io/badger/v3"
	"github.com/pacmangol/fxledger/internal/domain/entity"
	"github.com/pacmangol/fxledger/internal/domain/repository"
)

const (
	invoiceKeyPrefix = "invoice:"
	paymentKeyPrefix = "payment:"
)

// BadgerInvoiceRepository implements the invoice repository interface using
// BadgerDB. Invoice numbers are unique here: storing an existing number
// fails with repository.ErrDuplicateInvoice.
type BadgerInvoiceRepository struct {
	db *badger.DB
}

// NewBadgerInvoiceRepository creates a new BadgerDB invoice repository
func NewBadgerInvoiceRepository(db *badger.DB) *BadgerInvoiceRepository {
	return &BadgerInvoiceRepository{db: db}
}

// Store saves an invoice keyed by its invoice number
func (r *BadgerInvoiceRepository) Store(ctx context.Context, invoice *entity.Invoice) error {
	data, err := json.Marshal(invoice)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice: %w", err)
	}

	key := []byte(invoiceKeyPrefix + invoice.InvoiceNumber)

	err = r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return repository.ErrDuplicateInvoice
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})

	if errors.Is(err, repository.ErrDuplicateInvoice) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to store invoice: %w", err)
	}

	return nil
}

// FindByNumber retrieves an invoice by its invoice number
func (r *BadgerInvoiceRepository) FindByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	var invoice entity.Invoice

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(invoiceKeyPrefix + number))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &invoice)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvoiceNotFound, number)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve invoice: %w", err)
	}

	return &invoice, nil
}

// List returns all invoices in the ledger
func (r *BadgerInvoiceRepository) List(ctx context.Context) ([]entity.Invoice, error) {
	var invoices []entity.Invoice

	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, invoiceKeyPrefix, func(val []byte) error {
			var invoice entity.Invoice
			if err := json.Unmarshal(val, &invoice); err != nil {
				return err
			}
			invoices = append(invoices, invoice)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return invoices, nil
}

// BadgerPaymentRepository implements the payment repository interface using
// BadgerDB. Payments are keyed by invoice number plus their own ID, so a
// prefix scan yields all payments for one invoice. The invoice number is
// escaped inside the key, keeping the separator unambiguous for numbers
// that themselves contain a colon.
type BadgerPaymentRepository struct {
	db *badger.DB
}

// NewBadgerPaymentRepository creates a new BadgerDB payment repository
func NewBadgerPaymentRepository(db *badger.DB) *BadgerPaymentRepository {
	return &BadgerPaymentRepository{db: db}
}

// Store saves a payment
func (r *BadgerPaymentRepository) Store(ctx context.Context, payment *entity.Payment) error {
	data, err := json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("failed to marshal payment: %w", err)
	}

	key := []byte(paymentPrefix(payment.InvoiceNumber) + payment.ID)

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})

	if err != nil {
		return fmt.Errorf("failed to store payment: %w", err)
	}

	return nil
}

// ListByInvoice returns all payments referencing an invoice number
func (r *BadgerPaymentRepository) ListByInvoice(ctx context.Context, invoiceNumber string) ([]entity.Payment, error) {
	return r.listByPrefix(paymentPrefix(invoiceNumber))
}

// List returns all payments in the ledger
func (r *BadgerPaymentRepository) List(ctx context.Context) ([]entity.Payment, error) {
	return r.listByPrefix(paymentKeyPrefix)
}

func (r *BadgerPaymentRepository) listByPrefix(prefix string) ([]entity.Payment, error) {
	var payments []entity.Payment

	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefix, func(val []byte) error {
			var payment entity.Payment
			if err := json.Unmarshal(val, &payment); err != nil {
				return err
			}
			payments = append(payments, payment)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}

// paymentPrefix returns the key prefix covering exactly one invoice's
// payments. Escaping removes every colon from the invoice number, so the
// trailing separator cannot be forged by another invoice's number.
func paymentPrefix(invoiceNumber string) string {
	return paymentKeyPrefix + url.QueryEscape(invoiceNumber) + ":"
}

// scanPrefix visits the value of every key with the given prefix
func scanPrefix(txn *badger.Txn, prefix string, visit func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		if err := it.Item().Value(visit); err != nil {
			return err
		}
	}

	return nil
}
