package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"fxdesk/internal/store"
)

// FreshnessGate decides whether today's refresh has already happened.
type FreshnessGate struct {
	store    store.Store
	sentinel string
	now      func() time.Time
	log      *zap.SugaredLogger
}

// NewFreshnessGate creates a gate that inspects the newer snapshot of sentinel.
func NewFreshnessGate(st store.Store, sentinel string, now func() time.Time, logger *zap.SugaredLogger) *FreshnessGate {
	if now == nil {
		now = time.Now
	}
	return &FreshnessGate{store: st, sentinel: sentinel, now: now, log: logger}
}

// NeedsUpdate reports true unless the sentinel's newer snapshot was published on the
// current UTC date. Any doubt (missing file, bad JSON, bad timestamp) means true.
func (g *FreshnessGate) NeedsUpdate(ctx context.Context) bool {
	doc, err := g.store.ReadSnapshot(ctx, store.Newer, g.sentinel)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			g.log.Warnw("Freshness check could not read sentinel", "base", g.sentinel, "error", err)
		}
		return true
	}

	snap, err := decodeSnapshot(doc)
	if err != nil {
		g.log.Warnw("Freshness check could not decode sentinel", "base", g.sentinel, "error", err)
		return true
	}
	if snap.TimeLastUpdateUTC == "" {
		return true
	}

	updated, err := parseUpdateTime(snap.TimeLastUpdateUTC)
	if err != nil {
		g.log.Warnw("Freshness check got malformed timestamp", "base", g.sentinel,
			"timestamp", snap.TimeLastUpdateUTC, "error", err)
		return true
	}

	apiDate := updated.UTC().Format(time.DateOnly)
	today := g.now().UTC().Format(time.DateOnly)
	g.log.Infow("Freshness check", "api_date", apiDate, "today", today)
	return apiDate != today
}
