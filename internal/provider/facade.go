package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	_ RatesProvider  = (*ExchangeProviderFacade)(nil)
	_ CurrencyLister = (*ExchangeProviderFacade)(nil)
)

// ExchangeProviderFacade calls upstreams in order until one answers.
type ExchangeProviderFacade struct {
	providers []RatesProvider
}

// NewExchangeProviderFacade creates a facade over providers, tried first to last.
func NewExchangeProviderFacade(providers ...RatesProvider) *ExchangeProviderFacade {
	return &ExchangeProviderFacade{
		providers: providers,
	}
}

// GetRate calls providers sequentially until one succeeds.
func (p *ExchangeProviderFacade) GetRate(ctx context.Context, base, quote string) (float64, time.Time, error) {
	var errs []error
	for _, prov := range p.providers {
		rate, ts, err := prov.GetRate(ctx, base, quote)
		if err == nil {
			return rate, ts, nil
		}
		if ctx.Err() != nil {
			return 0, time.Time{}, ctx.Err()
		}
		errs = append(errs, err)
	}

	return 0, time.Time{}, fmt.Errorf("all providers failed: %w", errors.Join(errs...))
}

// ListCurrencies returns the list of the first provider that can produce one.
// Providers that do not list currencies are skipped.
func (p *ExchangeProviderFacade) ListCurrencies(ctx context.Context) ([]string, error) {
	var errs []error
	for _, prov := range p.providers {
		lister, ok := prov.(CurrencyLister)
		if !ok {
			continue
		}
		codes, err := lister.ListCurrencies(ctx)
		if err == nil {
			return codes, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrListUnsupported
	}

	return nil, fmt.Errorf("all currency lists failed: %w", errors.Join(errs...))
}
