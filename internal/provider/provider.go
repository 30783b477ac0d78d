// Package provider implements clients for the external rate, news and history APIs.
package provider

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotConfigured is returned by clients whose API key is missing.
	ErrNotConfigured = errors.New("api key not set")
	// ErrListUnsupported is returned when no wrapped upstream can list currencies.
	ErrListUnsupported = errors.New("currency listing not supported")
)

// RatesProvider fetches a single live exchange rate.
type RatesProvider interface {
	GetRate(ctx context.Context, base, quote string) (float64, time.Time, error)
}

// SnapshotSource fetches the full rate table for one base currency as raw JSON.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context, base string) ([]byte, error)
}

// CurrencyLister lists the currency codes an upstream can quote.
type CurrencyLister interface {
	ListCurrencies(ctx context.Context) ([]string, error)
}
