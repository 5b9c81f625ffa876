// internal/infrastructure/api/nbp_client_test.go
package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
)

func TestFetchBidRate(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		switch r.URL.Path {
		case "/USD/2024-01-02/":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"table": "C",
				"currency": "dolar amerykański",
				"code": "USD",
				"rates": [
					{
						"no": "001/C/NBP/2024",
						"effectiveDate": "2024-01-02",
						"bid": 3.9432,
						"ask": 4.0228
					}
				]
			}`))
		case "/USD/2024-01-06/":
			// Saturday: NBP publishes nothing
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("404 NotFound - Not Found - Brak danych"))
		case "/USD/2024-01-07/":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"table": "C", "code": "USD", "rates": []}`))
		case "/USD/2024-01-08/":
			w.Write([]byte(`not json at all`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer mockServer.Close()

	client := NewNBPClient(mockServer.URL, nil, logger.NewJSONLogger(io.Discard, logger.ErrorLevel))
	ctx := context.Background()

	t.Run("Successful fetch", func(t *testing.T) {
		date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		rate, err := client.FetchBidRate(ctx, "USD", date)

		assert.NoError(t, err)
		assert.NotNil(t, rate)
		assert.Equal(t, "USD", rate.Currency)
		assert.Equal(t, 3.9432, rate.Bid)
		assert.Equal(t, date, rate.Date)
	})

	t.Run("No table published for date", func(t *testing.T) {
		date := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
		rate, err := client.FetchBidRate(ctx, "USD", date)

		assert.Error(t, err)
		assert.Nil(t, rate)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("Empty rates array", func(t *testing.T) {
		date := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
		rate, err := client.FetchBidRate(ctx, "USD", date)

		assert.Error(t, err)
		assert.Nil(t, rate)
		assert.Contains(t, err.Error(), "no rate published")
	})

	t.Run("Malformed response body", func(t *testing.T) {
		date := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
		rate, err := client.FetchBidRate(ctx, "USD", date)

		assert.Error(t, err)
		assert.Nil(t, rate)
		assert.Contains(t, err.Error(), "failed to decode response")
	})

	t.Run("Unreachable server", func(t *testing.T) {
		downClient := NewNBPClient("http://127.0.0.1:1", nil, logger.NewJSONLogger(io.Discard, logger.ErrorLevel))
		date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		rate, err := downClient.FetchBidRate(ctx, "USD", date)

		assert.Error(t, err)
		assert.Nil(t, rate)
	})
}
