package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"fxdesk/internal/currency"
	"fxdesk/internal/store"
)

// Trend indicators reported with every rate.
const (
	IndicatorUp      = "up"
	IndicatorDown    = "down"
	IndicatorNeutral = "neutral"
)

// RateRecord is one target currency in a RatesView.
type RateRecord struct {
	Currency  string  `json:"currency"`
	Rate      float64 `json:"rate"`
	Change    float64 `json:"change"`
	Indicator string  `json:"indicator"`
	Country   string  `json:"country"`
	Flag      string  `json:"flag"`
}

// RatesView is the combined rate table of one base currency.
type RatesView struct {
	Date  string       `json:"date"`
	Base  string       `json:"base"`
	Rates []RateRecord `json:"rates"`
}

// RateService answers rate table queries from the stored generations.
type RateService struct {
	store store.Store
	meta  currency.MetadataSource
	log   *zap.SugaredLogger
}

// NewRateService creates a new RateService.
func NewRateService(st store.Store, meta currency.MetadataSource, logger *zap.SugaredLogger) *RateService {
	return &RateService{store: st, meta: meta, log: logger}
}

// GetRates returns every target quoted in both generations for base, sorted by code.
func (s *RateService) GetRates(ctx context.Context, base string) (*RatesView, error) {
	base, err := currency.Normalize(base)
	if err != nil {
		return nil, ErrInvalidCurrency
	}

	newer, err := s.loadSnapshot(ctx, store.Newer, base)
	if err != nil {
		return nil, err
	}
	older, err := s.loadSnapshot(ctx, store.Older, base)
	if err != nil {
		return nil, err
	}
	meta, err := s.meta.Load()
	if err != nil {
		s.log.Errorw("Failed to load currency metadata", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	changes := s.changesFor(ctx, base)

	records := make([]RateRecord, 0, len(newer.Rates))
	for code, today := range newer.Rates {
		if _, ok := older.Rates[code]; !ok {
			continue
		}
		rec := RateRecord{
			Currency:  code,
			Rate:      round4(today),
			Indicator: IndicatorNeutral,
		}
		if ch, ok := changes[code]; ok {
			rec.Change = delta4(ch.Old, ch.New)
			rec.Indicator = indicatorFor(rec.Change)
		}
		m := meta.Lookup(code)
		rec.Country, rec.Flag = m.Country, m.Flag
		records = append(records, rec)
	}
	slices.SortFunc(records, func(a, b RateRecord) int {
		return strings.Compare(a.Currency, b.Currency)
	})

	return &RatesView{
		Date:  newer.timestamp(),
		Base:  base,
		Rates: records,
	}, nil
}

func (s *RateService) loadSnapshot(ctx context.Context, gen store.Generation, base string) (*rateSnapshot, error) {
	doc, err := s.store.ReadSnapshot(ctx, gen, base)
	if err != nil {
		s.log.Warnw("Rate snapshot unavailable", "base", base, "generation", gen.String(), "error", err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrDataUnavailable, gen, base, err)
	}
	snap, err := decodeSnapshot(doc)
	if err != nil {
		s.log.Errorw("Rate snapshot is corrupt", "base", base, "generation", gen.String(), "error", err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrDataUnavailable, gen, base, err)
	}
	return snap, nil
}

// changesFor returns the stored changes of base; a missing or broken document means none.
func (s *RateService) changesFor(ctx context.Context, base string) map[string]RateChange {
	doc, err := s.store.ReadComparison(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warnw("Comparison unavailable", "error", err)
		}
		return nil
	}
	cmp, err := decodeComparison(doc)
	if err != nil {
		s.log.Warnw("Comparison is corrupt", "error", err)
		return nil
	}
	return cmp[base].Changed
}

func indicatorFor(change float64) string {
	switch {
	case change > 0:
		return IndicatorUp
	case change < 0:
		return IndicatorDown
	default:
		return IndicatorNeutral
	}
}
