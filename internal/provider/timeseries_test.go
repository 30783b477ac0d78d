package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryClient_Timeseries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("apikey"))
		assert.Equal(t, "2026-10-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "EUR", r.URL.Query().Get("symbols"))
		_, _ = w.Write([]byte(`{"success":true,"rates":{
			"2026-10-03":{"EUR":0.93},
			"2026-10-01":{"EUR":0.91},
			"2026-10-02":{"GBP":0.8}
		}}`))
	}))
	defer srv.Close()

	c := NewHistoryClient(srv.URL, "key", 5)
	points, err := c.Timeseries(context.Background(), "USD", "EUR", "2026-10-01", "2026-10-03")
	require.NoError(t, err)
	assert.Equal(t, []HistoryPoint{
		{Date: "2026-10-01", Rate: 0.91},
		{Date: "2026-10-03", Rate: 0.93},
	}, points)
}

func TestHistoryClient_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"invalid_date","info":"bad range"}}`))
	}))
	defer srv.Close()

	c := NewHistoryClient(srv.URL, "key", 5)
	_, err := c.Timeseries(context.Background(), "USD", "EUR", "2026-10-05", "2026-10-01")
	assert.ErrorContains(t, err, "bad range")

	_, err = NewHistoryClient(srv.URL, "", 5).Timeseries(context.Background(), "USD", "EUR", "a", "b")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
