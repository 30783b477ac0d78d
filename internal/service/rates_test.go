package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxdesk/internal/currency"
	"fxdesk/internal/store"
)

var testMeta = currency.StaticMetadata{
	"EUR": {Country: "Eurozone", Flag: "🇪🇺"},
	"JPY": {Country: "Japan", Flag: "🇯🇵"},
}

type brokenMeta struct{}

func (brokenMeta) Load() (currency.Metadata, error) {
	return nil, errors.New("no such file")
}

func seedRates(t *testing.T, st store.Store) string {
	t.Helper()
	ts := stamp(testNow)
	putSnapshot(t, st, store.Older, "USD", stamp(testNow.AddDate(0, 0, -1)), map[string]float64{
		"EUR": 0.9, "GBP": 0.8, "JPY": 150, "SEK": 10.1,
	})
	putSnapshot(t, st, store.Newer, "USD", ts, map[string]float64{
		"JPY": 149.5, "EUR": 0.91234, "GBP": 0.8, "CHF": 0.88,
	})
	return ts
}

func TestRateService_GetRates(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	ts := seedRates(t, st)
	_, err := NewComparator(st, []string{"USD"}, nopLogger()).SaveComparison(ctx, store.Older, store.Newer)
	require.NoError(t, err)

	svc := NewRateService(st, testMeta, nopLogger())
	view, err := svc.GetRates(ctx, "usd")
	require.NoError(t, err)

	assert.Equal(t, &RatesView{
		Date: ts,
		Base: "USD",
		Rates: []RateRecord{
			{Currency: "EUR", Rate: 0.9123, Change: 0.0123, Indicator: IndicatorUp, Country: "Eurozone", Flag: "🇪🇺"},
			{Currency: "GBP", Rate: 0.8, Change: 0, Indicator: IndicatorNeutral, Country: currency.UnknownCountry},
			{Currency: "JPY", Rate: 149.5, Change: -0.5, Indicator: IndicatorDown, Country: "Japan", Flag: "🇯🇵"},
		},
	}, view)
}

func TestRateService_MissingComparisonIsTolerated(t *testing.T) {
	st := store.NewMemoryStore()
	seedRates(t, st)

	view, err := NewRateService(st, testMeta, nopLogger()).GetRates(context.Background(), "USD")
	require.NoError(t, err)
	require.Len(t, view.Rates, 3)
	for _, r := range view.Rates {
		assert.Zero(t, r.Change, r.Currency)
		assert.Equal(t, IndicatorNeutral, r.Indicator, r.Currency)
	}
}

func TestRateService_CorruptComparisonIsTolerated(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	seedRates(t, st)
	require.NoError(t, st.WriteComparison(ctx, []byte("[")))

	view, err := NewRateService(st, testMeta, nopLogger()).GetRates(ctx, "USD")
	require.NoError(t, err)
	assert.Len(t, view.Rates, 3)
}

func TestRateService_DateFallsBackToDateField(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	doc := []byte(`{"date":"2025-06-10","rates":{"EUR":0.9}}`)
	require.NoError(t, st.WriteSnapshot(ctx, store.Newer, "USD", doc))
	require.NoError(t, st.WriteSnapshot(ctx, store.Older, "USD", doc))

	view, err := NewRateService(st, testMeta, nopLogger()).GetRates(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10", view.Date)
}

func TestRateService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		meta    currency.MetadataSource
		setup   func(t *testing.T, st store.Store)
		wantErr error
	}{
		{
			name:    "invalid code",
			base:    "US1",
			meta:    testMeta,
			setup:   func(t *testing.T, st store.Store) { seedRates(t, st) },
			wantErr: ErrInvalidCurrency,
		},
		{
			name: "missing older generation",
			base: "USD",
			meta: testMeta,
			setup: func(t *testing.T, st store.Store) {
				putSnapshot(t, st, store.Newer, "USD", stamp(testNow), map[string]float64{"EUR": 1})
			},
			wantErr: ErrDataUnavailable,
		},
		{
			name: "missing newer generation",
			base: "USD",
			meta: testMeta,
			setup: func(t *testing.T, st store.Store) {
				putSnapshot(t, st, store.Older, "USD", stamp(testNow), map[string]float64{"EUR": 1})
			},
			wantErr: ErrDataUnavailable,
		},
		{
			name: "corrupt newer document",
			base: "USD",
			meta: testMeta,
			setup: func(t *testing.T, st store.Store) {
				putSnapshot(t, st, store.Older, "USD", stamp(testNow), map[string]float64{"EUR": 1})
				require.NoError(t, st.WriteSnapshot(context.Background(), store.Newer, "USD", []byte("{")))
			},
			wantErr: ErrDataUnavailable,
		},
		{
			name:    "metadata unreadable",
			base:    "USD",
			meta:    brokenMeta{},
			setup:   func(t *testing.T, st store.Store) { seedRates(t, st) },
			wantErr: ErrDataUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			tc.setup(t, st)
			_, err := NewRateService(st, tc.meta, nopLogger()).GetRates(context.Background(), tc.base)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestIndicatorFor(t *testing.T) {
	assert.Equal(t, IndicatorUp, indicatorFor(0.0001))
	assert.Equal(t, IndicatorDown, indicatorFor(-0.0001))
	assert.Equal(t, IndicatorNeutral, indicatorFor(0))
}
