package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateAPIConfig configures the external historical-rate source
type RateAPIConfig struct {
	BaseURL        string
	TimeoutSeconds int
	MaxAttempts    int
	FloorDate      time.Time
}

// LedgerConfig configures where the ledger is persisted
type LedgerConfig struct {
	InvoicesFile string
	PaymentsFile string
	DataDir      string
}

// AppConfig is the full application configuration
type AppConfig struct {
	Port                string
	HomeCurrency        string
	AvailableCurrencies []string
	RateAPI             RateAPIConfig
	Ledger              LedgerConfig
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int value %q: %v", s, err)
	}
	return i
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatalf("invalid date value %q: %v", s, err)
	}
	return d
}

func splitCurrencies(s string) []string {
	parts := strings.Split(s, ",")
	currencies := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			currencies = append(currencies, p)
		}
	}
	return currencies
}

// Load reads configuration from the environment, falling back to defaults
func Load() AppConfig {
	return AppConfig{
		Port:                getenv("APP_PORT", "8080"),
		HomeCurrency:        getenv("HOME_CURRENCY", "PLN"),
		AvailableCurrencies: splitCurrencies(getenv("AVAILABLE_CURRENCIES", "PLN,USD,EUR,GBP")),
		RateAPI: RateAPIConfig{
			BaseURL:        getenv("RATE_API_BASE_URL", "https://api.nbp.pl/api/exchangerates/rates/c"),
			TimeoutSeconds: mustAtoi(getenv("RATE_API_TIMEOUT", "10")),
			MaxAttempts:    mustAtoi(getenv("RATE_MAX_ATTEMPTS", "3")),
			FloorDate:      mustDate(getenv("RATE_FLOOR_DATE", "2002-01-02")),
		},
		Ledger: LedgerConfig{
			InvoicesFile: getenv("INVOICES_FILE", "invoices.xlsx"),
			PaymentsFile: getenv("PAYMENTS_FILE", "payments.xlsx"),
			DataDir:      getenv("DATA_DIR", "data"),
		},
	}
}
