package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/amishk599/jobhunter/internal/browse"
	"github.com/amishk599/jobhunter/internal/store"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored listings interactively (TUI)",
	Long:  "Shows a picker for analyzed or pending listings, then the split-pane browser.",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Any log output once the TUI is up corrupts the display.
	st, err := store.Open(cfg.Database.Path, discardLogger())
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	for {
		stats, err := browse.RunLoader("Counting listings", st.Stats)
		if err != nil {
			return browseErr(err)
		}

		src, ok, err := browse.RunSourcePicker(stats.Analyzed, stats.Pending)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return nil
		}
		if !ok {
			return nil
		}

		var (
			title string
			items []browse.Item
		)
		switch src {
		case browse.SourcePending:
			title = "Pending"
			items, err = browse.RunLoader("Loading pending listings", func(ctx context.Context) ([]browse.Item, error) {
				listings, err := st.Unanalyzed(ctx)
				return browse.ItemsFromPending(listings), err
			})
		default:
			title = "Analyzed"
			items, err = browse.RunLoader("Loading analyzed listings", func(ctx context.Context) ([]browse.Item, error) {
				rows, err := st.ScoredListings(ctx, 0)
				return browse.ItemsFromScored(rows), err
			})
		}
		if err != nil {
			if errors.Is(err, browse.ErrCancelled) {
				return nil
			}
			fmt.Printf("Error loading listings: %v\n", err)
			continue
		}

		wantQuit, err := browse.Run(title, items)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
		// else: back to the picker
	}
}

func browseErr(err error) error {
	if errors.Is(err, browse.ErrCancelled) {
		return nil
	}
	fmt.Printf("Error reading store: %v\n", err)
	return nil
}
