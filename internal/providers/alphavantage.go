package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	apperrors "stockwatch/internal/errors"
)

const alphaVantageEndpoint = "https://www.alphavantage.co/query"

// AlphaVantageClient fetches daily closing prices from the Alpha Vantage API.
type AlphaVantageClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewAlphaVantageClient creates a new Alpha Vantage client.
func NewAlphaVantageClient(apiKey string, timeout time.Duration) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:   apiKey,
		endpoint: alphaVantageEndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// IsConfigured reports whether an API key is set.
func (c *AlphaVantageClient) IsConfigured() bool {
	return c.apiKey != ""
}

// timeSeriesResponse mirrors the TIME_SERIES_DAILY payload. Alpha Vantage
// signals quota exhaustion with a "Note" or "Information" field and a 200
// status, so those are part of the schema.
type timeSeriesResponse struct {
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
	ErrorMessage string                       `json:"Error Message"`
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
}

// GetDailyClose returns the most recent daily close for a symbol.
func (c *AlphaVantageClient) GetDailyClose(ctx context.Context, symbol string) (*DailyClose, error) {
	if !c.IsConfigured() {
		return nil, apperrors.ErrNotConfigured
	}

	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewProviderError("alphavantage", "daily close", 0, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrProviderUnavailable, "alphavantage %s", symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperrors.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewProviderError("alphavantage", "daily close", resp.StatusCode, apperrors.ErrProviderUnavailable)
	}

	var data timeSeriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, apperrors.NewProviderError("alphavantage", "daily close", 0, err)
	}

	if data.Note != "" || data.Information != "" {
		return nil, apperrors.ErrRateLimited
	}
	if data.ErrorMessage != "" {
		return nil, apperrors.NewProviderError("alphavantage", "daily close", 0, fmt.Errorf("%s", data.ErrorMessage))
	}
	if len(data.TimeSeries) == 0 {
		return nil, apperrors.NewProviderError("alphavantage", "daily close", 0, fmt.Errorf("no time series data for %s", symbol))
	}

	dates := make([]string, 0, len(data.TimeSeries))
	for d := range data.TimeSeries {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	latest := dates[0]
	day, err := time.ParseInLocation("2006-01-02", latest, time.UTC)
	if err != nil {
		return nil, apperrors.NewProviderError("alphavantage", "daily close", 0, fmt.Errorf("bad date %q: %w", latest, err))
	}

	closeStr, ok := data.TimeSeries[latest]["4. close"]
	if !ok {
		return nil, apperrors.NewProviderError("alphavantage", "daily close", 0, fmt.Errorf("no close price for %s on %s", symbol, latest))
	}
	closePrice, err := strconv.ParseFloat(closeStr, 64)
	if err != nil {
		return nil, apperrors.NewProviderError("alphavantage", "daily close", 0, fmt.Errorf("bad close price %q: %w", closeStr, err))
	}

	return &DailyClose{Symbol: symbol, Date: day, Close: closePrice}, nil
}
