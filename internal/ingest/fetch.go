package ingest

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobhunter/internal/model"
)

// FetchAll invokes each provider in order and concatenates their listings.
// A failing provider is logged and skipped so one bad board never blocks the
// rest. It stops early only when ctx is cancelled.
func FetchAll(ctx context.Context, providers []model.Provider, logger *slog.Logger) []model.Listing {
	var all []model.Listing
	for _, p := range providers {
		if ctx.Err() != nil {
			logger.Warn("fetch cancelled", "remaining_from", p.Name())
			break
		}

		listings, err := p.FetchListings(ctx)
		if err != nil {
			logger.Error("provider fetch failed", "provider", p.Name(), "error", err)
			continue
		}
		logger.Debug("provider fetched", "provider", p.Name(), "count", len(listings))
		all = append(all, listings...)
	}
	return all
}
