package provider

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	_ RatesProvider  = (*CachedRatesProviderDecorator)(nil)
	_ CurrencyLister = (*CachedRatesProviderDecorator)(nil)
)

// CachedRatesProviderDecorator keeps live rates and the upstream currency
// list in Redis for ttl.
type CachedRatesProviderDecorator struct {
	provider     RatesProvider
	cache        *redis.Client
	ttl          time.Duration
	providerName string
}

// NewCachedRatesProvider creates a new CachedRatesProviderDecorator. A nil
// cache turns it into a pass-through.
func NewCachedRatesProvider(provider RatesProvider, cache *redis.Client, ttl time.Duration, providerName string) *CachedRatesProviderDecorator {
	return &CachedRatesProviderDecorator{
		provider:     provider,
		cache:        cache,
		ttl:          ttl,
		providerName: providerName,
	}
}

func (p *CachedRatesProviderDecorator) rateKey(base, quote string) string {
	return fmt.Sprintf("rate_cache:%s:{%s:%s}", p.providerName, base, quote)
}

func (p *CachedRatesProviderDecorator) listKey() string {
	return "currency_list:" + p.providerName
}

// GetRate serves from cache when possible and stores fresh rates for ttl.
func (p *CachedRatesProviderDecorator) GetRate(ctx context.Context, base, quote string) (float64, time.Time, error) {
	if p.cache == nil {
		return p.provider.GetRate(ctx, base, quote)
	}

	key := p.rateKey(base, quote)

	vals, err := p.cache.HMGet(ctx, key, "rate", "updated_at").Result()
	if err == nil && len(vals) == 2 {
		if rate, ts, ok := parseCachedRate(vals[0], vals[1]); ok {
			return rate, ts, nil
		}
	}

	rate, ts, err := p.provider.GetRate(ctx, base, quote)
	if err != nil {
		return 0, time.Time{}, err
	}

	pipe := p.cache.Pipeline()
	pipe.HSet(ctx, key, "rate", strconv.FormatFloat(rate, 'f', -1, 64), "updated_at", ts.Format(time.RFC3339))
	pipe.Expire(ctx, key, p.ttl)
	_, _ = pipe.Exec(ctx)

	return rate, ts, nil
}

// ListCurrencies caches the wrapped provider's list as a Redis set.
func (p *CachedRatesProviderDecorator) ListCurrencies(ctx context.Context) ([]string, error) {
	lister, ok := p.provider.(CurrencyLister)
	if !ok {
		return nil, ErrListUnsupported
	}
	if p.cache == nil {
		return lister.ListCurrencies(ctx)
	}

	key := p.listKey()
	if codes, err := p.cache.SMembers(ctx, key).Result(); err == nil && len(codes) > 0 {
		slices.Sort(codes)
		return codes, nil
	}

	codes, err := lister.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	members := make([]any, len(codes))
	for i, c := range codes {
		members[i] = c
	}
	_, _ = p.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SAdd(ctx, key, members...)
		pipe.Expire(ctx, key, p.ttl)
		return nil
	})

	return codes, nil
}

func parseCachedRate(rateVal, tsVal any) (float64, time.Time, bool) {
	rateStr, ok1 := rateVal.(string)
	tsStr, ok2 := tsVal.(string)
	if !ok1 || !ok2 {
		return 0, time.Time{}, false
	}
	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil {
		return 0, time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, tsStr)
	if err != nil {
		return 0, time.Time{}, false
	}
	return rate, ts, true
}
