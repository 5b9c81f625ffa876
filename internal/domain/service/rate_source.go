package service

import (
	"context"
	"errors"
	"time"

	"github.com/pacmangol/fxledger/internal/domain/entity"
)

// ErrRateUnavailable signals that no usable exchange rate could be resolved
// within the retry window. Callers must treat it as "cannot currently compute"
// and never substitute a default rate.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// RateSource defines the interface for an external historical-rate source.
// A source answers for a single exact date; it does not retry or walk back.
type RateSource interface {
	// FetchBidRate retrieves the bid rate published for a currency on a date
	FetchBidRate(ctx context.Context, currency string, date time.Time) (*entity.ExchangeRate, error)
}
