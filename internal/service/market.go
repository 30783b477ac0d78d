package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fxdesk/internal/currency"
	"fxdesk/internal/provider"
)

// NewsSource returns recent currency news.
type NewsSource interface {
	Latest(ctx context.Context) ([]provider.Article, error)
}

// HistorySource returns a daily rate timeseries.
type HistorySource interface {
	Timeseries(ctx context.Context, base, target, start, end string) ([]provider.HistoryPoint, error)
}

// MarketService serves news and rate history.
type MarketService struct {
	news    NewsSource
	history HistorySource
	log     *zap.SugaredLogger
}

// NewMarketService creates a new MarketService.
func NewMarketService(news NewsSource, history HistorySource, logger *zap.SugaredLogger) *MarketService {
	return &MarketService{news: news, history: history, log: logger}
}

// News returns the latest currency articles.
func (s *MarketService) News(ctx context.Context) ([]provider.Article, error) {
	articles, err := s.news.Latest(ctx)
	if err != nil {
		return nil, s.upstreamErr("news", err)
	}
	return articles, nil
}

// History returns the target's daily rate against base between start and end inclusive.
func (s *MarketService) History(ctx context.Context, base, target, start, end string) ([]provider.HistoryPoint, error) {
	if base == "" || target == "" || start == "" || end == "" {
		return nil, ErrMissingParams
	}
	base, err := currency.Normalize(base)
	if err != nil {
		return nil, err
	}
	target, err = currency.Normalize(target)
	if err != nil {
		return nil, err
	}

	from, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return nil, fmt.Errorf("%w: start %q", ErrInvalidDate, start)
	}
	to, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return nil, fmt.Errorf("%w: end %q", ErrInvalidDate, end)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: start after end", ErrInvalidDate)
	}

	points, err := s.history.Timeseries(ctx, base, target, start, end)
	if err != nil {
		return nil, s.upstreamErr("history", err)
	}
	return points, nil
}

func (s *MarketService) upstreamErr(source string, err error) error {
	if errors.Is(err, provider.ErrNotConfigured) {
		s.log.Warnw("Upstream API key not configured", "source", source)
		return ErrNotConfigured
	}
	s.log.Errorw("Upstream request failed", "source", source, "error", err)
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}
