package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsClient_Latest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "currency OR forex", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"title":"Dollar slips","url":"https://example.com/1"},
			{"title":"","url":"https://example.com/2"},
			{"title":"No link"}
		]}`))
	}))
	defer srv.Close()

	c := NewNewsClient(srv.URL, "secret", 5, 5)
	articles, err := c.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Article{{Title: "Dollar slips", URL: "https://example.com/1"}}, articles)
}

func TestNewsClient_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		c := NewNewsClient("http://unused", "", 10, 5)
		_, err := c.Latest(context.Background())
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
		}))
		defer srv.Close()

		c := NewNewsClient(srv.URL, "bad", 10, 5)
		_, err := c.Latest(context.Background())
		assert.ErrorContains(t, err, "apiKeyInvalid")
	})
}
