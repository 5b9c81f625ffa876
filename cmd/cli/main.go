package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/pacmangol/fxledger/internal/application/service"
	"github.com/pacmangol/fxledger/internal/config"
	"github.com/pacmangol/fxledger/internal/infrastructure/api"
	"github.com/pacmangol/fxledger/internal/infrastructure/cache"
	"github.com/pacmangol/fxledger/internal/infrastructure/console"
	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
	"github.com/pacmangol/fxledger/internal/infrastructure/xlsx"
)

func main() {
	cfg := config.Load()

	// Keep structured logs on stderr so prompts and results stay readable
	appLogger := logger.NewJSONLogger(os.Stderr, logger.WarnLevel)
	logger.SetDefaultLogger(appLogger)

	httpClient := &http.Client{Timeout: time.Duration(cfg.RateAPI.TimeoutSeconds) * time.Second}
	rateSource := api.NewNBPClient(cfg.RateAPI.BaseURL, httpClient, appLogger)
	resolver := service.NewRateResolver(rateSource, cache.NewRateCache(), appLogger,
		cfg.HomeCurrency, cfg.RateAPI.FloorDate, cfg.RateAPI.MaxAttempts)
	reconciliation := service.NewReconciliationService(resolver, appLogger)

	store := xlsx.NewLedgerStore(cfg.Ledger.InvoicesFile, cfg.Ledger.PaymentsFile, appLogger)

	app := console.NewApp(os.Stdin, os.Stdout, reconciliation, store,
		cfg.AvailableCurrencies, appLogger)

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("Session failed: %v", err)
	}
}
