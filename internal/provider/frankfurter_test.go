package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrankfurterServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/latest":
			q := r.URL.Query()
			if q.Get("base") != "EUR" || q.Get("symbols") != "USD" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"not found"}`))
				return
			}
			_, _ = w.Write([]byte(`{"amount":1.0,"base":"EUR","date":"2026-10-16","rates":{"USD":1.0854}}`))
		case "/currencies":
			_, _ = w.Write([]byte(`{"USD":"United States Dollar","AUD":"Australian Dollar","EUR":"Euro"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFrankfurterProvider_GetRate(t *testing.T) {
	srv := newFrankfurterServer(t)
	p := NewFrankfurterProvider(srv.URL, 5)

	rate, ts, err := p.GetRate(context.Background(), "eur", "usd")
	require.NoError(t, err)
	assert.Equal(t, 1.0854, rate)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), ts)

	_, _, err = p.GetRate(context.Background(), "EUR", "KES")
	assert.ErrorContains(t, err, "status 404")
}

func TestFrankfurterProvider_SameCurrency(t *testing.T) {
	p := NewFrankfurterProvider("http://127.0.0.1:1", 1)

	rate, _, err := p.GetRate(context.Background(), "USD", "usd")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestFrankfurterProvider_ListCurrencies(t *testing.T) {
	srv := newFrankfurterServer(t)
	p := NewFrankfurterProvider(srv.URL+"/", 5)

	codes, err := p.ListCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AUD", "EUR", "USD"}, codes)
}
