//go:build integration

// Package integration runs the stores, the refresh cycle and the task queue against
// real Postgres and Redis instances.
package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// testContext returns a context with a 30-second deadline tied to the test's cleanup.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// fakeERAPI serves /latest/{base} documents whose EUR rate and timestamp can be changed between cycles.
type fakeERAPI struct {
	mu      sync.Mutex
	stamp   string
	usdEUR  float64
	missing map[string]bool
}

func newFakeERAPI(t *testing.T) (*fakeERAPI, *httptest.Server) {
	t.Helper()
	f := &fakeERAPI{missing: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeERAPI) publish(ts time.Time, usdEUR float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stamp = ts.UTC().Format("Mon, 02 Jan 2006 15:04:05 -0700")
	f.usdEUR = usdEUR
}

func (f *fakeERAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	base := strings.TrimPrefix(r.URL.Path, "/latest/")
	if f.missing[base] {
		http.Error(w, `{"result":"error","error-type":"unsupported-code"}`, http.StatusNotFound)
		return
	}
	var rates string
	switch base {
	case "USD":
		rates = fmt.Sprintf(`{"USD":1,"EUR":%g}`, f.usdEUR)
	case "EUR":
		rates = fmt.Sprintf(`{"EUR":1,"USD":%g}`, 1/f.usdEUR)
	default:
		rates = `{"USD":1}`
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"result":"success","base_code":%q,"time_last_update_utc":%q,"rates":%s}`,
		base, f.stamp, rates)
}
