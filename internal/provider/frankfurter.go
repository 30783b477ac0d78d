package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

var (
	_ RatesProvider  = (*FrankfurterProvider)(nil)
	_ CurrencyLister = (*FrankfurterProvider)(nil)
)

// FrankfurterProvider quotes ECB reference rates. It only covers about thirty
// currencies, so it sits behind er-api in the conversion chain.
type FrankfurterProvider struct {
	baseURL string
	client  *http.Client
}

// NewFrankfurterProvider creates a new FrankfurterProvider.
func NewFrankfurterProvider(baseURL string, timeoutSec int) *FrankfurterProvider {
	if baseURL == "" {
		baseURL = "https://api.frankfurter.dev/v1"
	}
	return &FrankfurterProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}
}

type frankfurterLatest struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

func (p *FrankfurterProvider) get(ctx context.Context, path string, q url.Values, out any) error {
	reqURL := p.baseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("frankfurter request creation failed: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("frankfurter request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return fmt.Errorf("frankfurter %s returned status %d: %s", path, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode frankfurter %s response: %w", path, err)
	}
	return nil
}

// GetRate returns the base/quote reference rate. Frankfurter publishes one
// rate per working day, so the timestamp is the start of that UTC day.
func (p *FrankfurterProvider) GetRate(ctx context.Context, base, quote string) (float64, time.Time, error) {
	base, quote = strings.ToUpper(base), strings.ToUpper(quote)
	if base == quote {
		return 1, time.Now().UTC(), nil
	}

	var result frankfurterLatest
	if err := p.get(ctx, "/latest", url.Values{"base": {base}, "symbols": {quote}}, &result); err != nil {
		return 0, time.Time{}, err
	}

	rate, ok := result.Rates[quote]
	if !ok {
		return 0, time.Time{}, fmt.Errorf("no rate for %s in frankfurter response", quote)
	}

	day, err := time.Parse(time.DateOnly, result.Date)
	if err != nil {
		return rate, time.Time{}, nil
	}
	return rate, day.UTC(), nil
}

// ListCurrencies returns the sorted codes Frankfurter can quote.
func (p *FrankfurterProvider) ListCurrencies(ctx context.Context) ([]string, error) {
	var names map[string]string
	if err := p.get(ctx, "/currencies", nil, &names); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("frankfurter returned no currencies")
	}
	return slices.Sorted(maps.Keys(names)), nil
}
