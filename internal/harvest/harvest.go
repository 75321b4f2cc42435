// Package harvest runs every source adapter concurrently and folds their
// results into one deduplicated job list plus per-source diagnostics.
package harvest

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/priyamv/jobhub/internal/model"
)

// Report aggregates per-source diagnostics for one harvest run.
type Report struct {
	BySource map[model.Source]model.Diagnostics
}

// TotalFetched sums the fetched counts across sources.
func (r Report) TotalFetched() int {
	n := 0
	for _, d := range r.BySource {
		n += d.Fetched
	}
	return n
}

// TotalKept sums the post-filter counts across sources.
func (r Report) TotalKept() int {
	n := 0
	for _, d := range r.BySource {
		n += d.Kept
	}
	return n
}

// Harvester fans out to all adapters and concatenates their results.
type Harvester struct {
	adapters       []model.Adapter
	adapterTimeout time.Duration
	logger         *slog.Logger
}

// NewHarvester wires a harvester over the given adapters. Each adapter
// gets its own timeout so a hung source cannot stall the rest.
func NewHarvester(adapters []model.Adapter, adapterTimeout time.Duration, logger *slog.Logger) *Harvester {
	return &Harvester{
		adapters:       adapters,
		adapterTimeout: adapterTimeout,
		logger:         logger,
	}
}

type fetchResult struct {
	source model.Source
	jobs   []model.Job
	diag   model.Diagnostics
}

// Run fetches from every adapter concurrently and returns the concatenated
// records with the combined report. Adapters never fail the run: each one
// owns its own diagnostics, merged only after all of them finish or time
// out.
func (h *Harvester) Run(ctx context.Context, now time.Time) ([]model.Job, Report) {
	var g errgroup.Group
	results := make(chan fetchResult, len(h.adapters))

	for _, a := range h.adapters {
		g.Go(func() error {
			actx, cancel := context.WithTimeout(ctx, h.adapterTimeout)
			defer cancel()

			h.logger.Info("source running", "source", a.Source())
			jobs, diag := a.Fetch(actx, now)
			results <- fetchResult{source: a.Source(), jobs: jobs, diag: diag}
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	var all []model.Job
	report := Report{BySource: make(map[model.Source]model.Diagnostics, len(h.adapters))}
	for res := range results {
		all = append(all, res.jobs...)
		report.BySource[res.source] = res.diag
		h.logger.Info("source done",
			"source", res.source,
			"fetched", res.diag.Fetched,
			"kept", res.diag.Kept,
			"last_error", res.diag.LastError,
		)
	}

	return all, report
}
