package ingest

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobhunter/internal/model"
)

// ListingStore is the write side of persistence the pipeline needs.
type ListingStore interface {
	Insert(ctx context.Context, l *model.Listing) (bool, error)
}

// Result summarizes one pipeline run.
type Result struct {
	Fetched  int
	Matched  int
	Inserted int
	Skipped  int // already known by URL or fingerprint
	Failed   int // storage errors
}

// Pipeline owns one scrape pass: fetch → filter → insert → notify.
type Pipeline struct {
	providers []model.Provider
	filter    model.ListingFilter
	store     ListingStore
	notifier  model.Notifier
	logger    *slog.Logger
}

// NewPipeline creates a pipeline wired with all its dependencies. filter and
// notifier may be nil.
func NewPipeline(
	providers []model.Provider,
	filter model.ListingFilter,
	store ListingStore,
	notifier model.Notifier,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		providers: providers,
		filter:    filter,
		store:     store,
		notifier:  notifier,
		logger:    logger,
	}
}

// Run executes one pass. Per-listing storage errors and notifier failures are
// logged and counted; the only error returned is ctx cancellation.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	listings := FetchAll(ctx, p.providers, p.logger)
	res := Result{Fetched: len(listings)}

	var fresh []model.Listing
	for i := range listings {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		l := &listings[i]
		if p.filter != nil && !p.filter.Match(*l) {
			continue
		}
		res.Matched++

		inserted, err := p.store.Insert(ctx, l)
		switch {
		case err != nil:
			res.Failed++
			p.logger.Error("storing listing failed", "url", l.URL, "source", l.Source, "error", err)
		case inserted:
			res.Inserted++
			fresh = append(fresh, *l)
		default:
			res.Skipped++
			p.logger.Debug("listing already stored", "url", l.URL, "source", l.Source)
		}
	}

	if len(fresh) > 0 && p.notifier != nil {
		if err := p.notifier.Notify(fresh); err != nil {
			p.logger.Error("notifying new listings failed", "count", len(fresh), "error", err)
		}
	}

	p.logger.Info("scrape complete",
		"fetched", res.Fetched,
		"matched", res.Matched,
		"inserted", res.Inserted,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res, ctx.Err()
}
