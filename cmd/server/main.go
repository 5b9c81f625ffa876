package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/pacmangol/fxledger/internal/application/service"
	"github.com/pacmangol/fxledger/internal/config"
	"github.com/pacmangol/fxledger/internal/infrastructure/api"
	"github.com/pacmangol/fxledger/internal/infrastructure/cache"
	"github.com/pacmangol/fxledger/internal/infrastructure/db"
	"github.com/pacmangol/fxledger/internal/infrastructure/handler"
	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
	"github.com/pacmangol/fxledger/internal/infrastructure/middleware"
)

func main() {
	cfg := config.Load()

	appLogger := logger.NewJSONLogger(os.Stdout, logger.InfoLevel)
	logger.SetDefaultLogger(appLogger)

	appLogger.Info("Starting invoice FX reconciliation server", map[string]interface{}{
		"home_currency": cfg.HomeCurrency,
		"currencies":    cfg.AvailableCurrencies,
		"port":          cfg.Port,
	})

	// Setup BadgerDB
	if err := os.MkdirAll(cfg.Ledger.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	badgerOpts := badger.DefaultOptions(cfg.Ledger.DataDir)
	badgerOpts.Logger = nil // Disable Badger's default logger

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	defer func() {
		if err := badgerDB.Close(); err != nil {
			appLogger.Error("Error closing BadgerDB", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Initialize repositories
	invoiceRepo := db.NewBadgerInvoiceRepository(badgerDB)
	paymentRepo := db.NewBadgerPaymentRepository(badgerDB)

	// Initialize the rate source and resolver
	httpClient := &http.Client{Timeout: time.Duration(cfg.RateAPI.TimeoutSeconds) * time.Second}
	rateSource := api.NewNBPClient(cfg.RateAPI.BaseURL, httpClient, appLogger)
	resolver := service.NewRateResolver(rateSource, cache.NewRateCache(), appLogger,
		cfg.HomeCurrency, cfg.RateAPI.FloorDate, cfg.RateAPI.MaxAttempts)

	// Initialize services
	reconciliation := service.NewReconciliationService(resolver, appLogger)
	ledger := service.NewLedgerService(invoiceRepo, paymentRepo, reconciliation, appLogger)

	// Initialize handlers
	invoiceHandler := handler.NewInvoiceHandler(ledger, cfg.AvailableCurrencies, appLogger)
	paymentHandler := handler.NewPaymentHandler(ledger, cfg.AvailableCurrencies, appLogger)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(appLogger))
	invoiceHandler.RegisterRoutes(router)
	paymentHandler.RegisterRoutes(router)

	// Start server
	appLogger.Info("Server listening", map[string]interface{}{"addr": ":" + cfg.Port})
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
