package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fxdesk/internal/provider"
	"fxdesk/internal/store"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func stamp(t time.Time) string {
	return t.UTC().Format(provider.ERAPITimeLayout)
}

func snapshotDoc(t *testing.T, ts string, rates map[string]float64) []byte {
	t.Helper()
	doc, err := json.Marshal(map[string]any{
		"result":               "success",
		"time_last_update_utc": ts,
		"rates":                rates,
	})
	require.NoError(t, err)
	return doc
}

func putSnapshot(t *testing.T, st store.Store, gen store.Generation, base, ts string, rates map[string]float64) {
	t.Helper()
	require.NoError(t, st.WriteSnapshot(context.Background(), gen, base, snapshotDoc(t, ts, rates)))
}

// fakeSource serves one document per base; bases in fail return an error.
// onFetch, if set, runs before each request.
type fakeSource struct {
	mu      sync.Mutex
	docs    map[string][]byte
	fail    map[string]bool
	calls   []string
	onFetch func(base string)
}

func (f *fakeSource) FetchSnapshot(ctx context.Context, base string) ([]byte, error) {
	if f.onFetch != nil {
		f.onFetch(base)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, base)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.fail[base] {
		return nil, errors.New("upstream returned 503")
	}
	doc, ok := f.docs[base]
	if !ok {
		return nil, errors.New("unknown base")
	}
	return doc, nil
}

// failingStore wraps a store and injects errors into selected operations.
type failingStore struct {
	store.Store
	clearErr      error
	rotateErr     error
	writeErr      map[string]error
	comparisonErr error
}

func (f *failingStore) ClearStaging(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.Store.ClearStaging(ctx)
}

func (f *failingStore) Rotate(ctx context.Context) error {
	if f.rotateErr != nil {
		return f.rotateErr
	}
	return f.Store.Rotate(ctx)
}

func (f *failingStore) WriteSnapshot(ctx context.Context, gen store.Generation, base string, doc []byte) error {
	if err := f.writeErr[base]; err != nil {
		return err
	}
	return f.Store.WriteSnapshot(ctx, gen, base, doc)
}

func (f *failingStore) WriteComparison(ctx context.Context, doc []byte) error {
	if f.comparisonErr != nil {
		return f.comparisonErr
	}
	return f.Store.WriteComparison(ctx, doc)
}
