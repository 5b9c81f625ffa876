// internal/infrastructure/handler/integration_test.go
package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/pacmangol/fxledger/internal/application/service"
	"github.com/pacmangol/fxledger/internal/domain/entity"
	"github.com/pacmangol/fxledger/internal/infrastructure/db"
	"github.com/pacmangol/fxledger/internal/infrastructure/handler"
	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
	"github.com/pacmangol/fxledger/internal/infrastructure/middleware"
	"github.com/pacmangol/fxledger/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testFloor      = time.Date(2002, 1, 2, 0, 0, 0, 0, time.UTC)
	testCurrencies = []string{"PLN", "USD", "EUR", "GBP"}
)

// setupTestServer creates a test server backed by an in-memory ledger and a
// mocked rate source
func setupTestServer(t *testing.T, source *mocks.MockRateSource) *httptest.Server {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	badgerDB, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { badgerDB.Close() })

	log := logger.NewJSONLogger(io.Discard, logger.ErrorLevel)

	invoiceRepo := db.NewBadgerInvoiceRepository(badgerDB)
	paymentRepo := db.NewBadgerPaymentRepository(badgerDB)

	resolver := service.NewRateResolver(source, nil, log, "PLN", testFloor, 3)
	reconciliation := service.NewReconciliationService(resolver, log)
	ledger := service.NewLedgerService(invoiceRepo, paymentRepo, reconciliation, log)

	invoiceHandler := handler.NewInvoiceHandler(ledger, testCurrencies, log)
	paymentHandler := handler.NewPaymentHandler(ledger, testCurrencies, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	invoiceHandler.RegisterRoutes(router)
	paymentHandler.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func mockRate(source *mocks.MockRateSource, currency, date string, bid float64) {
	d, _ := time.Parse("2006-01-02", date)
	source.On("FetchBidRate", mock.Anything, currency, d).
		Return(&entity.ExchangeRate{Currency: currency, Date: d, Bid: bid}, nil)
}

func TestInvoiceLifecycle(t *testing.T) {
	source := new(mocks.MockRateSource)
	mockRate(source, "USD", "2024-01-02", 4.00)
	mockRate(source, "USD", "2024-01-05", 4.10)

	server := setupTestServer(t, source)

	// Create an invoice
	resp := postJSON(t, server.URL+"/invoices", handler.CreateInvoiceRequest{
		InvoiceNumber: "INV-1",
		Amount:        100,
		Currency:      "USD",
		IssueDate:     "2024-01-02",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Creating it again conflicts
	resp = postJSON(t, server.URL+"/invoices", handler.CreateInvoiceRequest{
		InvoiceNumber: "INV-1",
		Amount:        100,
		Currency:      "USD",
		IssueDate:     "2024-01-02",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Retrieve it
	getResp, err := http.Get(server.URL + "/invoices/INV-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	var invoice handler.InvoiceResponse
	decodeBody(t, getResp, &invoice)
	assert.Equal(t, "INV-1", invoice.InvoiceNumber)
	assert.Equal(t, "2024-01-02", invoice.IssueDate)

	// Record a payment; the response carries both reconciliation figures
	resp = postJSON(t, server.URL+"/invoices/INV-1/payments", handler.RecordPaymentRequest{
		Amount:      50,
		Currency:    "USD",
		PaymentDate: "2024-01-05",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var recorded handler.RecordPaymentResponse
	decodeBody(t, resp, &recorded)
	assert.NotEmpty(t, recorded.PaymentID)
	assert.InDelta(t, 0.1, recorded.FXDifference, 1e-9)
	assert.InDelta(t, 195.0, recorded.RemainingAmount, 1e-9)

	// Reconciliation endpoint agrees
	reconResp, err := http.Get(server.URL + "/invoices/INV-1/reconciliation")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, reconResp.StatusCode)

	var recon handler.ReconciliationResponse
	decodeBody(t, reconResp, &recon)
	assert.Equal(t, "INV-1", recon.InvoiceNumber)
	assert.InDelta(t, 0.1, recon.FXDifference, 1e-9)
	assert.InDelta(t, 195.0, recon.RemainingAmount, 1e-9)
}

func TestRecordPaymentValidation(t *testing.T) {
	source := new(mocks.MockRateSource)
	server := setupTestServer(t, source)

	resp := postJSON(t, server.URL+"/invoices", handler.CreateInvoiceRequest{
		InvoiceNumber: "INV-1",
		Amount:        100,
		Currency:      "USD",
		IssueDate:     "2024-01-02",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	cases := []struct {
		name string
		req  handler.RecordPaymentRequest
	}{
		{"Negative amount", handler.RecordPaymentRequest{Amount: -1, Currency: "USD", PaymentDate: "2024-01-05"}},
		{"Unsupported currency", handler.RecordPaymentRequest{Amount: 50, Currency: "CHF", PaymentDate: "2024-01-05"}},
		{"Bad date format", handler.RecordPaymentRequest{Amount: 50, Currency: "USD", PaymentDate: "05.01.2024"}},
		{"Payment before issue date", handler.RecordPaymentRequest{Amount: 50, Currency: "USD", PaymentDate: "2023-12-30"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, server.URL+"/invoices/INV-1/payments", tc.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			resp.Body.Close()
		})
	}

	t.Run("Unknown invoice", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/invoices/INV-404/payments", handler.RecordPaymentRequest{
			Amount: 50, Currency: "USD", PaymentDate: "2024-01-05",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestReconciliationWithUnavailableRate(t *testing.T) {
	source := new(mocks.MockRateSource)
	// Every lookup fails, for every probed date
	source.On("FetchBidRate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("API returned status 404"))

	server := setupTestServer(t, source)

	resp := postJSON(t, server.URL+"/invoices", handler.CreateInvoiceRequest{
		InvoiceNumber: "INV-1",
		Amount:        100,
		Currency:      "USD",
		IssueDate:     "2024-01-02",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The payment is stored, but the response signals the missing rate
	resp = postJSON(t, server.URL+"/invoices/INV-1/payments", handler.RecordPaymentRequest{
		Amount:      50,
		Currency:    "USD",
		PaymentDate: "2024-01-05",
	})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var recordErr handler.ErrorResponse
	decodeBody(t, resp, &recordErr)
	assert.Equal(t, http.StatusServiceUnavailable, recordErr.Status)
	assert.Equal(t, "Exchange rate unavailable", recordErr.Error)

	// The reconciliation endpoint reports the same unavailability
	reconResp, err := http.Get(server.URL + "/invoices/INV-1/reconciliation")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, reconResp.StatusCode)

	var reconErr handler.ErrorResponse
	decodeBody(t, reconResp, &reconErr)
	assert.Equal(t, http.StatusServiceUnavailable, reconErr.Status)
	assert.Equal(t, "Exchange rate unavailable", reconErr.Error)
}
