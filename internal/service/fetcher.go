package service

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fxdesk/internal/provider"
	"fxdesk/internal/store"
)

// FetchReport lists which base currencies were saved during a fetch.
type FetchReport struct {
	Saved  []string
	Failed []string
}

// Fetcher pulls the full rate table of every base currency into a generation.
type Fetcher struct {
	source      provider.SnapshotSource
	store       store.Store
	bases       []string
	concurrency int
	log         *zap.SugaredLogger
}

// NewFetcher creates a Fetcher. A concurrency below 1 fetches one currency at a time.
func NewFetcher(source provider.SnapshotSource, st store.Store, bases []string, concurrency int, logger *zap.SugaredLogger) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		source:      source,
		store:       st,
		bases:       bases,
		concurrency: concurrency,
		log:         logger,
	}
}

// FetchAll stores one snapshot per base into gen. A failing currency is logged and
// skipped; it never stops the others.
func (f *Fetcher) FetchAll(ctx context.Context, gen store.Generation) FetchReport {
	var (
		mu     sync.Mutex
		report FetchReport
		g      errgroup.Group
	)
	g.SetLimit(f.concurrency)

	for _, base := range f.bases {
		g.Go(func() error {
			ok := f.fetchOne(ctx, gen, base)
			mu.Lock()
			defer mu.Unlock()
			if ok {
				report.Saved = append(report.Saved, base)
			} else {
				report.Failed = append(report.Failed, base)
			}
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(report.Saved)
	slices.Sort(report.Failed)
	return report
}

func (f *Fetcher) fetchOne(ctx context.Context, gen store.Generation, base string) bool {
	doc, err := f.source.FetchSnapshot(ctx, base)
	if err != nil {
		f.log.Errorw("Failed to fetch rates", "base", base, "error", err)
		return false
	}
	if err := f.store.WriteSnapshot(ctx, gen, base, doc); err != nil {
		f.log.Errorw("Failed to save rates", "base", base, "generation", gen.String(), "error", err)
		return false
	}
	f.log.Debugw("Saved rates", "base", base, "generation", gen.String())
	return true
}
