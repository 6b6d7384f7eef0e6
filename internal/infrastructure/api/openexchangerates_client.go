package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/damon-houk/nkap/internal/domain/entity"
	"github.com/damon-houk/nkap/internal/domain/service"
	"github.com/damon-houk/nkap/internal/infrastructure/logger"
)

const (
	// DefaultURL is the latest-rates endpoint of Open Exchange Rates
	DefaultURL = "https://openexchangerates.org/api/latest.json"

	// AppIDEnv is read at fetch time when no credential was given to the client
	AppIDEnv = "API_ID"

	appIDParam = "app_id"
)

// OpenExchangeRatesClient fetches the latest USD-based rate table
type OpenExchangeRatesClient struct {
	baseURL    string
	appID      string
	httpClient *http.Client
	logger     logger.Logger
}

// NewOpenExchangeRatesClient creates a new client. An empty appID defers to
// AppIDEnv on every fetch. A nil httpClient gets a 10 second timeout; a nil
// log uses the default logger.
func NewOpenExchangeRatesClient(appID string, httpClient *http.Client, log logger.Logger) *OpenExchangeRatesClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &OpenExchangeRatesClient{
		baseURL:    DefaultURL,
		appID:      appID,
		httpClient: httpClient,
		logger:     log.WithField("component", "openexchangerates"),
	}
}

// WithBaseURL points the client at another endpoint
func (c *OpenExchangeRatesClient) WithBaseURL(baseURL string) *OpenExchangeRatesClient {
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// ratesResponse represents the response structure of the latest.json endpoint
type ratesResponse struct {
	Disclaimer string             `json:"disclaimer"`
	License    string             `json:"license"`
	Timestamp  int64              `json:"timestamp"`
	Base       string             `json:"base"`
	Rates      map[string]float64 `json:"rates"`
}

// FetchRates performs a single request for the current rate table. Failures
// are not retried.
func (c *OpenExchangeRatesClient) FetchRates(ctx context.Context) (entity.RateTable, error) {
	appID := c.credential()
	if appID == "" {
		return nil, service.ErrMissingCredential
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint %q: %w", service.ErrTransport, c.baseURL, err)
	}

	query := endpoint.Query()
	query.Set(appIDParam, appID)
	endpoint.RawQuery = query.Encode()

	c.logger.Debug("Requesting latest exchange rates", map[string]interface{}{
		"endpoint": c.baseURL,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", service.ErrTransport, err)
	}

	// Add Accept header to ensure JSON response
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrTransport, redactAppID(err, appID))
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	if err := checkResponseStatus(resp.StatusCode); err != nil {
		c.logger.Debug("Exchange rate API rejected the request", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return nil, err
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", service.ErrTransport, err)
	}

	var ratesResp ratesResponse
	if err := json.Unmarshal(bodyBytes, &ratesResp); err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrDecode, err)
	}

	if len(ratesResp.Rates) == 0 {
		return nil, fmt.Errorf("%w: response contains no rates", service.ErrDecode)
	}

	table := make(entity.RateTable, len(ratesResp.Rates))
	for code, rate := range ratesResp.Rates {
		// Validate the rate is positive
		if rate <= 0 {
			return nil, fmt.Errorf("%w: invalid exchange rate value for %s: %f", service.ErrDecode, code, rate)
		}
		table[code] = rate
	}

	c.logger.Debug("Received exchange rates", map[string]interface{}{
		"base":      ratesResp.Base,
		"count":     len(table),
		"timestamp": ratesResp.Timestamp,
	})

	return table, nil
}

// credential returns the configured app ID, falling back to the environment
func (c *OpenExchangeRatesClient) credential() string {
	if c.appID != "" {
		return c.appID
	}
	return os.Getenv(AppIDEnv)
}

// checkResponseStatus maps an HTTP status to a provider error
func checkResponseStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return service.ErrInvalidCredential
	case status == http.StatusForbidden:
		return service.ErrRateLimited
	default:
		return &service.UnexpectedStatusError{StatusCode: status}
	}
}

// redactAppID keeps the credential out of *url.Error messages
func redactAppID(err error, appID string) error {
	if urlErr, ok := err.(*url.Error); ok && appID != "" {
		if u, parseErr := url.Parse(urlErr.URL); parseErr == nil {
			q := u.Query()
			q.Set(appIDParam, "REDACTED")
			u.RawQuery = q.Encode()
			return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
		}
	}
	return err
}
