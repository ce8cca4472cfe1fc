package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/amishk599/jobhunter/internal/ingest"
)

// Job is one scrape pass. *ingest.Pipeline satisfies it.
type Job interface {
	Run(ctx context.Context) (ingest.Result, error)
}

// Scheduler drives a scrape job on a cron schedule such as "@every 1h" or
// "0 */2 * * *".
type Scheduler struct {
	job    Job
	spec   string
	logger *slog.Logger

	mu sync.Mutex // held while a pass runs; overlapping ticks are skipped
}

// NewScheduler validates spec and returns a scheduler for job.
func NewScheduler(job Job, spec string, logger *slog.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{
		job:    job,
		spec:   spec,
		logger: logger,
	}, nil
}

// Run runs one pass immediately, then on every cron tick until ctx is
// cancelled. It returns nil on graceful shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithLogger(cronLogger{s.logger}))
	if _, err := c.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.logger.Info("starting scrape scheduler", "schedule", s.spec)
	s.runOnce(ctx)

	c.Start()
	<-ctx.Done()

	s.logger.Info("shutting down scrape scheduler")
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !s.mu.TryLock() {
		s.logger.Warn("previous scrape still running, skipping tick")
		return
	}
	defer s.mu.Unlock()

	if _, err := s.job.Run(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("scrape failed", "error", err)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
