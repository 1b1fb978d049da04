package alphavantage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// FetchError is a transient network or HTTP failure for one symbol
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches daily time series from the Alpha Vantage query endpoint
type Client struct {
	client *resty.Client
	apiKey string
}

// NewClient creates a Client against the given base URL (normally
// https://www.alphavantage.co)
func NewClient(baseURL, apiKey string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		client: client,
		apiKey: apiKey,
	}
}

// FetchDaily retrieves the TIME_SERIES_DAILY body for a symbol and returns it
// verbatim. Body-level problems (error messages, rate-limit notes) are left
// for the validator; only transport and HTTP status failures are reported here.
func (c *Client) FetchDaily(ctx context.Context, symbol string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "TIME_SERIES_DAILY",
			"symbol":   symbol,
			"apikey":   c.apiKey,
		}).
		Get("/query")

	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &FetchError{
			Symbol: symbol,
			Err:    fmt.Errorf("unexpected status code %d", resp.StatusCode()),
		}
	}
	return resp.Body(), nil
}
