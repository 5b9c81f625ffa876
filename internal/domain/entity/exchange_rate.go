package entity

import (
	"time"
)

// ExchangeRate represents a published bid rate against the home currency on a
// specific date. Date is the date the rate was actually published for, which
// may be earlier than the date it was requested for.
type ExchangeRate struct {
	Currency string    `json:"currency"`
	Date     time.Time `json:"date"`
	Bid      float64   `json:"bid"`
}
