package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// HistoryPoint is one day of a rate timeseries.
type HistoryPoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// HistoryClient queries the APILayer exchangerates_data timeseries endpoint.
type HistoryClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHistoryClient creates a new HistoryClient.
func NewHistoryClient(baseURL, apiKey string, timeoutSec int) *HistoryClient {
	if baseURL == "" {
		baseURL = "https://api.apilayer.com/exchangerates_data"
	}
	return &HistoryClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}
}

type timeseriesResponse struct {
	Success bool                          `json:"success"`
	Rates   map[string]map[string]float64 `json:"rates"`
	Error   *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Timeseries returns daily base/target rates between start and end (YYYY-MM-DD), ordered by date.
func (c *HistoryClient) Timeseries(ctx context.Context, base, target, start, end string) ([]HistoryPoint, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("start_date", start)
	q.Set("end_date", end)
	q.Set("base", base)
	q.Set("symbols", target)
	reqURL := c.baseURL + "/timeseries?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("timeseries API request creation failed: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("timeseries API request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	var result timeseriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode timeseries API response (status %d): %w", resp.StatusCode, err)
	}
	if !result.Success || result.Rates == nil {
		if result.Error != nil {
			return nil, fmt.Errorf("timeseries API failed: %s %s", result.Error.Code, result.Error.Info)
		}
		return nil, fmt.Errorf("timeseries API returned no rates (status %d)", resp.StatusCode)
	}

	points := make([]HistoryPoint, 0, len(result.Rates))
	for date, day := range result.Rates {
		rate, ok := day[target]
		if !ok {
			continue
		}
		points = append(points, HistoryPoint{Date: date, Rate: rate})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}
