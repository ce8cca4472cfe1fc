package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/amishk599/jobhunter/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print store counts",
	Long:  "Prints how many listings are stored, analyzed and pending, broken down by source.",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Database.Path, discardLogger())
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	stats, err := st.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	fmt.Printf("Listings: %d (%d analyzed, %d pending)\n\n", stats.Listings, stats.Analyzed, stats.Pending)
	if len(stats.BySource) == 0 {
		return nil
	}

	sources := make([]string, 0, len(stats.BySource))
	for s := range stats.BySource {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	fmt.Printf("%-25s %s\n", "Source", "Listings")
	fmt.Println(strings.Repeat("─", 34))
	for _, s := range sources {
		fmt.Printf("%-25s %d\n", s, stats.BySource[s])
	}
	return nil
}
