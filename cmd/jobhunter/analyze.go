package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amishk599/jobhunter/internal/analyzer"
	"github.com/amishk599/jobhunter/internal/store"
	"github.com/spf13/cobra"
)

var (
	analyzeOnce         bool
	analyzePollInterval time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score unanalyzed listings",
	Long:  "Polls the store for listings without an analysis and scores them. With --once it runs a single pass and exits.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeOnce, "once", false, "score the current backlog once and exit")
	analyzeCmd.Flags().DurationVar(&analyzePollInterval, "poll-interval", 0, "override analyzer.poll_interval")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	interval := cfg.Analyzer.PollInterval
	if analyzePollInterval > 0 {
		interval = analyzePollInterval
	}

	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	an := analyzer.New(st, setupScorer(cfg, logger), interval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if analyzeOnce {
		res, err := an.Tick(ctx)
		if err != nil {
			return fmt.Errorf("analysis pass: %w", err)
		}
		fmt.Printf("pending %d, saved %d, failed %d\n", res.Pending, res.Saved, res.Failed)
		return nil
	}

	if err := an.Run(ctx); err != nil {
		return fmt.Errorf("analyzer: %w", err)
	}
	logger.Info("goodbye")
	return nil
}
