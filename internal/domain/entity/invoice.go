package entity

import (
	"errors"
	"time"
)

// Invoice represents an invoice denominated in a (possibly foreign) currency
type Invoice struct {
	InvoiceNumber string    `json:"invoice_number"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	IssueDate     time.Time `json:"issue_date"`
}

// Validate ensures the invoice meets all requirements
func (i *Invoice) Validate() error {
	if i.InvoiceNumber == "" {
		return errors.New("invoice number must not be empty")
	}

	if i.Amount <= 0 {
		return errors.New("amount must be a positive value")
	}

	if len(i.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}

	return nil
}
