package entity

import (
	"errors"
	"time"
)

// Payment represents a single payment made against an invoice. Multiple
// payments may reference the same invoice number; a payment referencing an
// unknown invoice is tolerated and simply never matches during reconciliation.
type Payment struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	PaymentDate   time.Time `json:"payment_date"`
}

// Validate ensures the payment meets all requirements
func (p *Payment) Validate() error {
	if p.InvoiceNumber == "" {
		return errors.New("invoice number must not be empty")
	}

	if p.Amount <= 0 {
		return errors.New("amount must be a positive value")
	}

	if len(p.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}

	return nil
}
