// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxdesk/internal/store"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) store.Store

// Run exercises the store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("missing snapshot", func(t *testing.T) {
		s := newStore(t)
		_, err := s.ReadSnapshot(context.Background(), store.Newer, "USD")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("write then read", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		doc := []byte(`{"rates":{"EUR":0.9}}`)

		require.NoError(t, s.WriteSnapshot(ctx, store.Newer, "USD", doc))

		got, err := s.ReadSnapshot(ctx, store.Newer, "USD")
		require.NoError(t, err)
		assert.JSONEq(t, string(doc), string(got))

		_, err = s.ReadSnapshot(ctx, store.Older, "USD")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("base codes are case-insensitive", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.WriteSnapshot(ctx, store.Newer, "usd", []byte(`{"v":1}`)))
		got, err := s.ReadSnapshot(ctx, store.Newer, "USD")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":1}`, string(got))

		require.NoError(t, s.WriteSnapshot(ctx, store.Newer, "EUR", []byte(`{"v":2}`)))
		got, err = s.ReadSnapshot(ctx, store.Newer, "eur")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, string(got))
	})

	t.Run("staging is invisible to the published generations", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.WriteSnapshot(ctx, store.Newer, "USD", []byte(`{"v":1}`)))
		require.NoError(t, s.WriteSnapshot(ctx, store.Staging, "USD", []byte(`{"v":2}`)))

		got, err := s.ReadSnapshot(ctx, store.Newer, "USD")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":1}`, string(got))
		_, err = s.ReadSnapshot(ctx, store.Older, "USD")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rotate with empty staging is a no-op", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.WriteSnapshot(ctx, store.Older, "EUR", []byte(`{"v":1}`)))
		require.NoError(t, s.WriteSnapshot(ctx, store.Newer, "EUR", []byte(`{"v":2}`)))

		require.NoError(t, s.Rotate(ctx))

		got, err := s.ReadSnapshot(ctx, store.Older, "EUR")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":1}`, string(got))
		got, err = s.ReadSnapshot(ctx, store.Newer, "EUR")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, string(got))
	})

	t.Run("rotate publishes staging and keeps newer as older", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.WriteSnapshot(ctx, store.Older, "USD", []byte(`{"v":1}`)))
		require.NoError(t, s.WriteSnapshot(ctx, store.Older, "GBP", []byte(`{"v":0}`)))
		require.NoError(t, s.WriteSnapshot(ctx, store.Newer, "USD", []byte(`{"v":2}`)))
		require.NoError(t, s.WriteSnapshot(ctx, store.Staging, "USD", []byte(`{"v":3}`)))
		require.NoError(t, s.WriteSnapshot(ctx, store.Staging, "EUR", []byte(`{"v":4}`)))

		require.NoError(t, s.Rotate(ctx))

		got, err := s.ReadSnapshot(ctx, store.Older, "USD")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, string(got))
		got, err = s.ReadSnapshot(ctx, store.Newer, "USD")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":3}`, string(got))
		got, err = s.ReadSnapshot(ctx, store.Newer, "EUR")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":4}`, string(got))

		_, err = s.ReadSnapshot(ctx, store.Older, "EUR")
		assert.ErrorIs(t, err, store.ErrNotFound)
		// the previous older generation is discarded, leaving staging empty
		_, err = s.ReadSnapshot(ctx, store.Staging, "GBP")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.ReadSnapshot(ctx, store.Staging, "USD")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("clear staging drops an unfinished generation", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.WriteSnapshot(ctx, store.Newer, "USD", []byte(`{"v":1}`)))
		require.NoError(t, s.WriteSnapshot(ctx, store.Staging, "EUR", []byte(`{"v":2}`)))

		require.NoError(t, s.ClearStaging(ctx))
		_, err := s.ReadSnapshot(ctx, store.Staging, "EUR")
		assert.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, s.Rotate(ctx))
		got, err := s.ReadSnapshot(ctx, store.Newer, "USD")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":1}`, string(got))
	})

	t.Run("clear staging on an empty store", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.ClearStaging(context.Background()))
	})

	t.Run("successive cycles keep the last two generations", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, doc := range []string{`{"v":1}`, `{"v":2}`, `{"v":3}`, `{"v":4}`} {
			require.NoError(t, s.ClearStaging(ctx))
			require.NoError(t, s.WriteSnapshot(ctx, store.Staging, "USD", []byte(doc)))
			require.NoError(t, s.Rotate(ctx))
		}

		got, err := s.ReadSnapshot(ctx, store.Older, "USD")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":3}`, string(got))
		got, err = s.ReadSnapshot(ctx, store.Newer, "USD")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":4}`, string(got))
	})

	t.Run("comparison document", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.ReadComparison(ctx)
		assert.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, s.WriteComparison(ctx, []byte(`{"USD":{"date":"d","changed":{}}}`)))
		require.NoError(t, s.WriteComparison(ctx, []byte(`{}`)))

		got, err := s.ReadComparison(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(got))
	})
}
