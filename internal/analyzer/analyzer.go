package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobhunter/internal/model"
)

// Store is the persistence the analyzer needs.
type Store interface {
	Unanalyzed(ctx context.Context) ([]model.Listing, error)
	SaveAnalysis(ctx context.Context, a model.Analysis) bool
}

// TickResult summarizes one pass over the backlog.
type TickResult struct {
	Pending int
	Saved   int
	Failed  int // analyses that could not be saved
}

// Analyzer scores every unanalyzed listing on a fixed interval.
type Analyzer struct {
	store    Store
	scorer   model.Scorer
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an analyzer polling store every interval.
func New(store Store, scorer model.Scorer, interval time.Duration, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		store:    store,
		scorer:   scorer,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Run ticks once immediately, then every interval. Errors never end the loop;
// it returns nil when ctx is cancelled.
func (a *Analyzer) Run(ctx context.Context) error {
	a.logger.Info("starting analyzer", "poll_interval", a.interval.String())

	a.tickAndLog(ctx)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("shutting down analyzer")
			return nil
		case <-time.After(a.interval):
			a.tickAndLog(ctx)
		}
	}
}

func (a *Analyzer) tickAndLog(ctx context.Context) {
	res, err := a.Tick(ctx)
	if err != nil {
		if ctx.Err() == nil {
			a.logger.Error("analysis tick failed", "error", err, "saved", res.Saved)
		}
		return
	}
	if res.Pending > 0 {
		a.logger.Info("analysis tick complete", "pending", res.Pending, "saved", res.Saved, "failed", res.Failed)
	}
}

// Tick scores the current backlog once. A scoring error abandons the rest of
// the backlog and is returned; a failed save is counted and the tick goes on.
func (a *Analyzer) Tick(ctx context.Context) (TickResult, error) {
	pending, err := a.store.Unanalyzed(ctx)
	if err != nil {
		return TickResult{}, fmt.Errorf("loading unanalyzed listings: %w", err)
	}

	res := TickResult{Pending: len(pending)}
	if len(pending) == 0 {
		a.logger.Debug("no listings to analyze")
		return res, nil
	}
	a.logger.Info("analyzing listings", "count", len(pending))

	for _, l := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		scores, err := a.scorer.Score(ctx, l)
		if err != nil {
			return res, fmt.Errorf("scoring listing %d (%s): %w", l.ID, l.URL, err)
		}

		analysis := model.NewAnalysis(l, scores, a.now())
		if !a.store.SaveAnalysis(ctx, analysis) {
			res.Failed++
			a.logger.Error("analysis not saved", "listing_id", l.ID, "url", l.URL)
			continue
		}

		res.Saved++
		a.logger.Info("listing analyzed",
			"listing_id", l.ID,
			"url", l.URL,
			"remote", scores.Remote,
			"relevance", scores.Relevance,
			"eu", scores.EUEligible,
		)
	}
	return res, nil
}
