// Package service internal/application/service/rate_resolver.go
package service

import (
	"context"
	"fmt"
	"time"

	domain "github.com/pacmangol/fxledger/internal/domain/service"
	"github.com/pacmangol/fxledger/internal/infrastructure/cache"
	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
)

// RateResolver resolves the bid rate for a currency against the home currency
// on a given date, walking back over days without a published rate.
type RateResolver struct {
	source       domain.RateSource
	cache        *cache.RateCache
	logger       logger.Logger
	homeCurrency string
	floorDate    time.Time
	maxAttempts  int
}

// NewRateResolver creates a new rate resolver. The cache may be nil to
// disable per-run caching. floorDate is the earliest date the external
// source has data for; maxAttempts bounds the backward walk.
func NewRateResolver(source domain.RateSource, rateCache *cache.RateCache, log logger.Logger,
	homeCurrency string, floorDate time.Time, maxAttempts int) *RateResolver {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateResolver{
		source:       source,
		cache:        rateCache,
		logger:       log,
		homeCurrency: homeCurrency,
		floorDate:    floorDate,
		maxAttempts:  maxAttempts,
	}
}

// Resolve returns the bid rate for a currency on a date. The home currency
// always resolves to 1.0 without touching the external source. For any other
// currency the resolver starts at the given date and steps back one calendar
// day per failed attempt; it stops on success, when maxAttempts is exhausted,
// or when the probe date would fall before the floor date. Exhaustion returns
// an error wrapping domain service.ErrRateUnavailable.
func (r *RateResolver) Resolve(ctx context.Context, currency string, date time.Time) (float64, error) {
	if currency == r.homeCurrency {
		return 1.0, nil
	}

	if r.cache != nil {
		if cached := r.cache.Get(currency, date); cached != nil {
			return cached.Bid, nil
		}
	}

	probe := date
	for attempt := 0; attempt < r.maxAttempts && !probe.Before(r.floorDate); attempt++ {
		rate, err := r.source.FetchBidRate(ctx, currency, probe)
		if err == nil {
			r.logger.Info("Exchange rate resolved", map[string]interface{}{
				"currency":       currency,
				"requested_date": date.Format("2006-01-02"),
				"rate_date":      rate.Date.Format("2006-01-02"),
				"bid":            rate.Bid,
				"attempts":       attempt + 1,
			})

			if r.cache != nil {
				r.cache.Put(rate, date)
			}

			return rate.Bid, nil
		}

		r.logger.Warn("No rate for date, stepping back one day", map[string]interface{}{
			"currency": currency,
			"date":     probe.Format("2006-01-02"),
			"attempt":  attempt + 1,
			"error":    err.Error(),
		})

		probe = probe.AddDate(0, 0, -1)
	}

	r.logger.Error("Exchange rate could not be resolved", map[string]interface{}{
		"currency":       currency,
		"requested_date": date.Format("2006-01-02"),
		"floor_date":     r.floorDate.Format("2006-01-02"),
		"max_attempts":   r.maxAttempts,
	})

	return 0, fmt.Errorf("no bid rate for %s on or before %s: %w",
		currency, date.Format("2006-01-02"), domain.ErrRateUnavailable)
}
