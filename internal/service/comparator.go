package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"fxdesk/internal/store"
)

// missingDate is recorded when the newer snapshot carries no timestamp.
const missingDate = "--"

// RateChange holds a rate in both generations, rounded to 4 places.
type RateChange struct {
	Old float64 `json:"old"`
	New float64 `json:"new"`
}

// BaseComparison lists the targets of one base whose rate moved.
type BaseComparison struct {
	Date    string                `json:"date"`
	Changed map[string]RateChange `json:"changed"`
}

// Comparison maps a base currency to its changed targets. Bases without changes are absent.
type Comparison map[string]BaseComparison

// Comparator diffs two generations and persists the result.
type Comparator struct {
	store store.Store
	bases []string
	log   *zap.SugaredLogger
}

// NewComparator creates a Comparator over bases.
func NewComparator(st store.Store, bases []string, logger *zap.SugaredLogger) *Comparator {
	return &Comparator{store: st, bases: bases, log: logger}
}

// Compare diffs older against newer without saving the result.
func (c *Comparator) Compare(ctx context.Context, olderGen, newerGen store.Generation) Comparison {
	result := Comparison{}
	for _, base := range c.bases {
		older, newer, err := c.loadPair(ctx, base, olderGen, newerGen)
		if err != nil {
			c.log.Warnw("Skipping comparison", "base", base, "error", err)
			continue
		}

		changed := compareRates(older.Rates, newer.Rates)
		if len(changed) == 0 {
			continue
		}
		date := newer.TimeLastUpdateUTC
		if date == "" {
			date = missingDate
		}
		result[base] = BaseComparison{Date: date, Changed: changed}
	}
	return result
}

// SaveComparison diffs older against newer and overwrites the stored document.
func (c *Comparator) SaveComparison(ctx context.Context, olderGen, newerGen store.Generation) (Comparison, error) {
	result := c.Compare(ctx, olderGen, newerGen)

	doc, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode comparison: %w", err)
	}
	if err := c.store.WriteComparison(ctx, doc); err != nil {
		return nil, fmt.Errorf("save comparison: %w", err)
	}
	c.log.Infow("Saved comparison", "bases_changed", len(result))
	return result, nil
}

func (c *Comparator) loadPair(ctx context.Context, base string, olderGen, newerGen store.Generation) (older, newer *rateSnapshot, err error) {
	newerDoc, err := c.store.ReadSnapshot(ctx, newerGen, base)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", newerGen, err)
	}
	olderDoc, err := c.store.ReadSnapshot(ctx, olderGen, base)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", olderGen, err)
	}
	if newer, err = decodeSnapshot(newerDoc); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", newerGen, err)
	}
	if older, err = decodeSnapshot(olderDoc); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", olderGen, err)
	}
	return older, newer, nil
}

// compareRates returns the targets present in both tables whose 4-place rate differs.
func compareRates(older, newer map[string]float64) map[string]RateChange {
	changed := map[string]RateChange{}
	for code, today := range newer {
		yesterday, ok := older[code]
		if !ok {
			continue
		}
		o, n := round4(yesterday), round4(today)
		if o != n {
			changed[code] = RateChange{Old: o, New: n}
		}
	}
	return changed
}

func decodeComparison(doc []byte) (Comparison, error) {
	var c Comparison
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("decode comparison: %w", err)
	}
	return c, nil
}
