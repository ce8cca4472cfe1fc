package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List all configured providers",
	Long:  "Reads the config and prints a table of all configured job sources.",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-25s %-12s %-20s %s\n", "Provider", "Kind", "Board", "Status")
	fmt.Println(strings.Repeat("─", 68))

	enabled, disabled := 0, 0
	for _, p := range cfg.Providers {
		status := "enabled"
		if !p.Enabled {
			status = "disabled"
			disabled++
		} else {
			enabled++
		}
		board := p.BoardToken
		if board == "" {
			board = "-"
		}
		fmt.Printf("%-25s %-12s %-20s %s\n", p.Name, p.Kind, board, status)
	}

	fmt.Printf("\nTotal: %d providers (%d enabled, %d disabled)\n", len(cfg.Providers), enabled, disabled)
	return nil
}
