package notifier

import (
	"log/slog"

	"github.com/amishk599/jobhunter/internal/model"
)

var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes newly stored listings to the given logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each listing via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each listing. It never fails.
func (n *LogNotifier) Notify(listings []model.Listing) error {
	for _, l := range listings {
		n.logger.Info("new listing",
			"id", l.ID,
			"source", l.Source,
			"title", l.Title,
			"location", l.Location,
			"salary", l.FormatSalary(),
			"url", l.URL,
			"published_at", l.PublishedAt,
		)
	}
	return nil
}
