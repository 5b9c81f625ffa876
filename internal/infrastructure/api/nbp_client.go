package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pacmangol/fxledger/internal/domain/entity"
	"github.com/pacmangol/fxledger/internal/infrastructure/logger"
)

// DefaultBaseURL is the NBP table C endpoint, which publishes bid/ask rates
// against PLN for business days only.
const DefaultBaseURL = "https://api.nbp.pl/api/exchangerates/rates/c"

// NBPClient fetches historical bid rates from the NBP exchange rate API.
// It answers for a single exact date; walking back over non-business days
// is the rate resolver's job.
type NBPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewNBPClient creates a new NBP API client
func NewNBPClient(baseURL string, httpClient *http.Client, log logger.Logger) *NBPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &NBPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     log,
	}
}

// nbpResponse represents the response structure from the NBP API
type nbpResponse struct {
	Table    string `json:"table"`
	Currency string `json:"currency"`
	Code     string `json:"code"`
	Rates    []struct {
		No            string  `json:"no"`
		EffectiveDate string  `json:"effectiveDate"`
		Bid           float64 `json:"bid"`
		Ask           float64 `json:"ask"`
	} `json:"rates"`
}

// FetchBidRate retrieves the bid rate published for a currency on a date
func (c *NBPClient) FetchBidRate(ctx context.Context, currency string, date time.Time) (*entity.ExchangeRate, error) {
	reqURL := fmt.Sprintf("%s/%s/%s/?format=json",
		c.baseURL,
		url.PathEscape(currency),
		date.Format("2006-01-02"))

	c.logger.Debug("Requesting exchange rate", map[string]interface{}{
		"url":      reqURL,
		"currency": currency,
		"date":     date.Format("2006-01-02"),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// NBP answers 404 with a plain-text body for dates without a published
	// table (weekends, holidays, future dates).
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d for %s on %s",
			resp.StatusCode, currency, date.Format("2006-01-02"))
	}

	var nbpResp nbpResponse
	if err := json.Unmarshal(bodyBytes, &nbpResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(nbpResp.Rates) == 0 {
		return nil, fmt.Errorf("no rate published for %s on %s",
			currency, date.Format("2006-01-02"))
	}

	rateData := nbpResp.Rates[0]

	if rateData.Bid <= 0 {
		return nil, fmt.Errorf("invalid bid rate value: %f", rateData.Bid)
	}

	rateDate, err := time.Parse("2006-01-02", rateData.EffectiveDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse effective date %q: %w", rateData.EffectiveDate, err)
	}

	return &entity.ExchangeRate{
		Currency: currency,
		Date:     rateDate,
		Bid:      rateData.Bid,
	}, nil
}
