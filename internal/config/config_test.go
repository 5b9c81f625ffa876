package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "PLN", cfg.HomeCurrency)
	assert.Equal(t, []string{"PLN", "USD", "EUR", "GBP"}, cfg.AvailableCurrencies)
	assert.Equal(t, "https://api.nbp.pl/api/exchangerates/rates/c", cfg.RateAPI.BaseURL)
	assert.Equal(t, 3, cfg.RateAPI.MaxAttempts)
	assert.Equal(t, time.Date(2002, 1, 2, 0, 0, 0, 0, time.UTC), cfg.RateAPI.FloorDate)
	assert.Equal(t, "invoices.xlsx", cfg.Ledger.InvoicesFile)
	assert.Equal(t, "payments.xlsx", cfg.Ledger.PaymentsFile)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HOME_CURRENCY", "EUR")
	t.Setenv("AVAILABLE_CURRENCIES", "eur, usd ,chf")
	t.Setenv("RATE_MAX_ATTEMPTS", "5")
	t.Setenv("RATE_FLOOR_DATE", "2010-06-01")

	cfg := Load()

	assert.Equal(t, "EUR", cfg.HomeCurrency)
	assert.Equal(t, []string{"EUR", "USD", "CHF"}, cfg.AvailableCurrencies)
	assert.Equal(t, 5, cfg.RateAPI.MaxAttempts)
	assert.Equal(t, time.Date(2010, 6, 1, 0, 0, 0, 0, time.UTC), cfg.RateAPI.FloorDate)
}
