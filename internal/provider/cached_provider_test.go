package provider

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCachedRatesProvider_GetRate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	base := "USD"
	quote := "EUR"
	rate := 0.8512
	now := time.Now().Truncate(time.Second).UTC()
	ttl := 10 * time.Second

	t.Run("cache miss then hit", func(t *testing.T) {
		mr.FlushAll()
		mockProv := new(MockProvider)
		mockProv.On("GetRate", mock.Anything, base, quote).Return(rate, now, nil).Once()

		cachedProv := NewCachedRatesProvider(mockProv, rdb, ttl, "erapi")

		resRate, resTime, err := cachedProv.GetRate(context.Background(), base, quote)
		assert.NoError(t, err)
		assert.Equal(t, rate, resRate)
		assert.True(t, resTime.Equal(now))
		mockProv.AssertExpectations(t)

		// .Once() makes a second provider call fail the test
		resRate2, resTime2, err := cachedProv.GetRate(context.Background(), base, quote)
		assert.NoError(t, err)
		assert.Equal(t, rate, resRate2)
		assert.True(t, resTime2.Equal(now))
	})

	t.Run("provider error is not cached", func(t *testing.T) {
		mr.FlushAll()
		mockProv := new(MockProvider)
		mockProv.On("GetRate", mock.Anything, base, quote).Return(0.0, time.Time{}, assert.AnError).Once()

		cachedProv := NewCachedRatesProvider(mockProv, rdb, ttl, "erapi")

		_, _, err := cachedProv.GetRate(context.Background(), base, quote)
		assert.Error(t, err)

		mockProv.On("GetRate", mock.Anything, base, quote).Return(rate, now, nil).Once()
		resRate, _, err := cachedProv.GetRate(context.Background(), base, quote)
		assert.NoError(t, err)
		assert.Equal(t, rate, resRate)
		mockProv.AssertExpectations(t)
	})

	t.Run("cache expires", func(t *testing.T) {
		mr.FlushAll()
		mockProv := new(MockProvider)
		mockProv.On("GetRate", mock.Anything, base, quote).Return(rate, now, nil).Once()

		cachedProv := NewCachedRatesProvider(mockProv, rdb, ttl, "erapi")

		_, _, _ = cachedProv.GetRate(context.Background(), base, quote)

		mr.FastForward(ttl + time.Second)

		mockProv.On("GetRate", mock.Anything, base, quote).Return(rate, now, nil).Once()
		_, _, err := cachedProv.GetRate(context.Background(), base, quote)
		assert.NoError(t, err)
		mockProv.AssertExpectations(t)
	})

	t.Run("nil cache passes through", func(t *testing.T) {
		mockProv := new(MockProvider)
		mockProv.On("GetRate", mock.Anything, base, quote).Return(rate, now, nil).Twice()

		cachedProv := NewCachedRatesProvider(mockProv, nil, ttl, "erapi")
		_, _, _ = cachedProv.GetRate(context.Background(), base, quote)
		_, _, _ = cachedProv.GetRate(context.Background(), base, quote)

		mockProv.AssertExpectations(t)
	})
}

func TestCachedRatesProvider_ListCurrencies(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ttl := time.Minute

	t.Run("cache miss then hit", func(t *testing.T) {
		mr.FlushAll()
		m := new(MockListingProvider)
		m.On("ListCurrencies", mock.Anything).Return([]string{"EUR", "JPY", "USD"}, nil).Once()

		p := NewCachedRatesProvider(m, rdb, ttl, "erapi")

		codes, err := p.ListCurrencies(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"EUR", "JPY", "USD"}, codes)

		codes, err = p.ListCurrencies(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"EUR", "JPY", "USD"}, codes)
		assert.True(t, mr.Exists("currency_list:erapi"))
		m.AssertExpectations(t)
	})

	t.Run("error is not cached", func(t *testing.T) {
		mr.FlushAll()
		m := new(MockListingProvider)
		m.On("ListCurrencies", mock.Anything).Return(nil, assert.AnError).Once()

		p := NewCachedRatesProvider(m, rdb, ttl, "erapi")

		_, err := p.ListCurrencies(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, mr.Exists("currency_list:erapi"))
	})

	t.Run("wrapped provider cannot list", func(t *testing.T) {
		p := NewCachedRatesProvider(new(MockProvider), rdb, ttl, "plain")

		_, err := p.ListCurrencies(context.Background())
		assert.ErrorIs(t, err, ErrListUnsupported)
	})
}
