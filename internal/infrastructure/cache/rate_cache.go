package cache

import (
	"sync"
	"time"

	"github.com/pacmangol/fxledger/internal/domain/entity"
)

// RateCache is a thread-safe in-memory cache of resolved exchange rates,
// keyed by currency and the originally requested date. It lives for a single
// run only; rates for a given date do not change within a run, so entries
// never expire.
type RateCache struct {
	cache map[string]*entity.ExchangeRate
	mutex sync.RWMutex
}

// NewRateCache creates a new rate cache
func NewRateCache() *RateCache {
	return &RateCache{
		cache: make(map[string]*entity.ExchangeRate),
	}
}

func cacheKey(currency string, date time.Time) string {
	return currency + ":" + date.Format("2006-01-02")
}

// Get retrieves a cached rate, or nil when none is cached
func (c *RateCache) Get(currency string, date time.Time) *entity.ExchangeRate {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.cache[cacheKey(currency, date)]
}

// Put stores a resolved rate under the date it was requested for, which may
// be later than the date the rate was published for
func (c *RateCache) Put(rate *entity.ExchangeRate, forDate time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[cacheKey(rate.Currency, forDate)] = rate
}

// Clear removes all entries from the cache
func (c *RateCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]*entity.ExchangeRate)
}

// Size returns the number of cached rates
func (c *RateCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}
