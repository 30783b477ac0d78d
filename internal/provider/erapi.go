package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"
)

// ERAPITimeLayout is the layout of time_last_update_utc in er-api responses.
const ERAPITimeLayout = time.RFC1123Z

const maxSnapshotBytes = 4 << 20

var (
	_ RatesProvider  = (*ERAPIProvider)(nil)
	_ SnapshotSource = (*ERAPIProvider)(nil)
	_ CurrencyLister = (*ERAPIProvider)(nil)
)

// ERAPIProvider talks to the open.er-api.com "latest" endpoint.
type ERAPIProvider struct {
	baseURL string
	client  *http.Client
}

// NewERAPIProvider creates a new ERAPIProvider.
func NewERAPIProvider(baseURL string, timeoutSec int) *ERAPIProvider {
	if baseURL == "" {
		baseURL = "https://open.er-api.com/v6"
	}
	return &ERAPIProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}
}

type erAPIResponse struct {
	Result            string             `json:"result"`
	ErrorType         string             `json:"error-type"`
	BaseCode          string             `json:"base_code"`
	TimeLastUpdateUTC string             `json:"time_last_update_utc"`
	Rates             map[string]float64 `json:"rates"`
}

func (p *ERAPIProvider) latest(ctx context.Context, base string) ([]byte, *erAPIResponse, error) {
	reqURL := fmt.Sprintf("%s/latest/%s", p.baseURL, strings.ToUpper(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("er-api request creation failed: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("er-api request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("er-api read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("er-api returned status %d: %s", resp.StatusCode, string(body))
	}

	var result erAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, nil, fmt.Errorf("failed to decode er-api response: %w", err)
	}
	if result.Result == "error" {
		return nil, nil, fmt.Errorf("er-api returned error %q for %s", result.ErrorType, base)
	}
	return body, &result, nil
}

// FetchSnapshot returns the verbatim "latest" document for base.
func (p *ERAPIProvider) FetchSnapshot(ctx context.Context, base string) ([]byte, error) {
	body, _, err := p.latest(ctx, base)
	return body, err
}

// GetRate returns the base/quote rate and the upstream's last update time. The time is
// zero when the upstream timestamp does not parse.
func (p *ERAPIProvider) GetRate(ctx context.Context, base, quote string) (float64, time.Time, error) {
	_, result, err := p.latest(ctx, base)
	if err != nil {
		return 0, time.Time{}, err
	}
	rate, ok := result.Rates[strings.ToUpper(quote)]
	if !ok {
		return 0, time.Time{}, fmt.Errorf("no rate for %s in er-api response", quote)
	}

	ts, err := time.Parse(ERAPITimeLayout, result.TimeLastUpdateUTC)
	if err != nil {
		return rate, time.Time{}, nil
	}
	return rate, ts.UTC(), nil
}

// ListCurrencies returns the sorted codes quoted against USD.
func (p *ERAPIProvider) ListCurrencies(ctx context.Context) ([]string, error) {
	_, result, err := p.latest(ctx, "USD")
	if err != nil {
		return nil, err
	}
	if result.Result != "success" {
		return nil, fmt.Errorf("er-api returned result %q", result.Result)
	}
	codes := make([]string, 0, len(result.Rates))
	for code := range result.Rates {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes, nil
}
