package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amishk599/jobhunter/internal/ingest"
	"github.com/amishk599/jobhunter/internal/scheduler"
	"github.com/amishk599/jobhunter/internal/store"
	"github.com/spf13/cobra"
)

var (
	scrapeDryRun bool
	scrapeWatch  bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one ingest pass, or keep scraping on the schedule",
	Long:  "Fetches every enabled provider, filters, stores new listings and notifies. With --watch it follows scrape.schedule until SIGINT/SIGTERM.",
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeDryRun, "dry-run", false, "fetch and notify but do not write to the store")
	scrapeCmd.Flags().BoolVar(&scrapeWatch, "watch", false, "keep running on scrape.schedule")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var listingStore ingest.ListingStore
	if scrapeDryRun {
		logger.Info("dry-run mode enabled, nothing will be stored")
		listingStore = store.NewNopStore()
	} else {
		st, err := store.Open(cfg.Database.Path, logger)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer st.Close()
		listingStore = st
	}

	pipeline, n := buildPipeline(cfg, listingStore, logger)
	if n == 0 {
		return errNoProviders
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if scrapeWatch {
		sched, err := scheduler.NewScheduler(pipeline, cfg.Scrape.Schedule, logger)
		if err != nil {
			return err
		}
		if err := sched.Run(ctx); err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
		logger.Info("goodbye")
		return nil
	}

	res, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("scrape interrupted: %w", err)
	}
	fmt.Printf("fetched %d, matched %d, inserted %d, skipped %d, failed %d\n",
		res.Fetched, res.Matched, res.Inserted, res.Skipped, res.Failed)
	return nil
}
