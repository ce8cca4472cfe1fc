package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/amishk599/jobhunter/internal/analyzer"
	"github.com/amishk599/jobhunter/internal/scheduler"
	"github.com/amishk599/jobhunter/internal/store"
	"github.com/amishk599/jobhunter/internal/web"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the scraper, analyzer and listing page together",
	Long:  "Starts the scrape scheduler, the analysis loop and the web page; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateScoring(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"database", cfg.Database.Path,
		"schedule", cfg.Scrape.Schedule,
		"poll_interval", cfg.Analyzer.PollInterval.String(),
		"providers", len(cfg.EnabledProviders()),
		"addr", cfg.Web.Addr,
	)

	// One store handle per role; SQLite serializes the writers.
	scrapeStore, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer scrapeStore.Close()

	analyzeStore, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("open analyzer store: %w", err)
	}
	defer analyzeStore.Close()

	webStore, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("open web store: %w", err)
	}
	defer webStore.Close()

	pipeline, n := buildPipeline(cfg, scrapeStore, logger)
	if n == 0 {
		return errNoProviders
	}
	sched, err := scheduler.NewScheduler(pipeline, cfg.Scrape.Schedule, logger)
	if err != nil {
		return err
	}

	an := analyzer.New(analyzeStore, setupScorer(cfg, logger), cfg.Analyzer.PollInterval, logger)
	engine := web.NewServer(web.NewHandler(webStore, logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = runRoles(ctx, map[string]func(context.Context) error{
		"scheduler": sched.Run,
		"analyzer":  an.Run,
		"web": func(ctx context.Context) error {
			return web.Serve(ctx, cfg.Web.Addr, engine, logger)
		},
	}, logger)
	if err != nil {
		return err
	}
	logger.Info("goodbye")
	return nil
}

// runRoles runs every role until ctx is cancelled. The first role to fail
// cancels the rest; all role errors are returned joined.
func runRoles(ctx context.Context, roles map[string]func(context.Context) error, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for name, run := range roles {
		name, run := name, run
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				logger.Error("role stopped with error", "role", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancel()
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}
