package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fxdesk/internal/store"
)

// CycleResult summarises one run of the update cycle.
type CycleResult struct {
	Skipped    bool
	Published  bool
	Saved      []string
	Failed     []string
	Changed    int
	StaleData  bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Updater runs the daily refresh: gate, fetch into staging, compare, rotate.
type Updater struct {
	gate       *FreshnessGate
	store      store.Store
	fetcher    *Fetcher
	comparator *Comparator
	sentinel   string
	now        func() time.Time
	log        *zap.SugaredLogger
}

// NewUpdater wires an Updater from its parts.
func NewUpdater(gate *FreshnessGate, st store.Store, fetcher *Fetcher, comparator *Comparator, sentinel string, logger *zap.SugaredLogger) *Updater {
	return &Updater{
		gate:       gate,
		store:      st,
		fetcher:    fetcher,
		comparator: comparator,
		sentinel:   sentinel,
		now:        time.Now,
		log:        logger,
	}
}

// Run executes one cycle. With force unset the cycle is skipped while the newer
// generation is already from today.
//
// Snapshots are fetched into the staging generation and the comparison is computed
// against it before Rotate publishes it, so an aborted run leaves both published
// generations untouched and the gate open for the next attempt. Staging, comparison
// and rotation failures abort.
func (u *Updater) Run(ctx context.Context, force bool) (*CycleResult, error) {
	res := &CycleResult{StartedAt: u.now().UTC()}

	if !force && !u.gate.NeedsUpdate(ctx) {
		u.log.Infow("Rates are already up to date, skipping refresh")
		res.Skipped = true
		res.FinishedAt = u.now().UTC()
		return res, nil
	}

	if err := u.store.ClearStaging(ctx); err != nil {
		return nil, fmt.Errorf("clear staging generation: %w", err)
	}

	report := u.fetcher.FetchAll(ctx, store.Staging)
	res.Saved, res.Failed = report.Saved, report.Failed
	u.log.Infow("Fetched rates", "saved", len(report.Saved), "failed", len(report.Failed))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}

	if len(report.Saved) == 0 {
		u.log.Warnw("No snapshots fetched; keeping the current generations")
		res.FinishedAt = u.now().UTC()
		return res, nil
	}

	res.StaleData = u.sameSentinelDate(ctx)
	if res.StaleData {
		u.log.Warnw("Upstream has not published new data; both generations share a timestamp",
			"sentinel", u.sentinel)
	}

	cmp, err := u.comparator.SaveComparison(ctx, store.Newer, store.Staging)
	if err != nil {
		return nil, err
	}
	res.Changed = len(cmp)

	if err := u.store.Rotate(ctx); err != nil {
		return nil, fmt.Errorf("rotate generations: %w", err)
	}
	res.Published = true
	res.FinishedAt = u.now().UTC()

	u.log.Infow("Refresh cycle finished",
		"saved", len(res.Saved), "failed", len(res.Failed), "bases_changed", res.Changed,
		"duration", res.FinishedAt.Sub(res.StartedAt).String())
	return res, nil
}

// sameSentinelDate reports whether the staged sentinel snapshot carries the same
// upstream timestamp as the published newer one.
func (u *Updater) sameSentinelDate(ctx context.Context) bool {
	stagedDoc, err := u.store.ReadSnapshot(ctx, store.Staging, u.sentinel)
	if err != nil {
		return false
	}
	newerDoc, err := u.store.ReadSnapshot(ctx, store.Newer, u.sentinel)
	if err != nil {
		return false
	}
	staged, err := decodeSnapshot(stagedDoc)
	if err != nil {
		return false
	}
	newer, err := decodeSnapshot(newerDoc)
	if err != nil {
		return false
	}
	return staged.TimeLastUpdateUTC != "" && staged.TimeLastUpdateUTC == newer.TimeLastUpdateUTC
}
