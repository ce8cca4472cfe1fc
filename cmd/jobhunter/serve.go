package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amishk599/jobhunter/internal/store"
	"github.com/amishk599/jobhunter/internal/web"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the listing page",
	Long:  "Serves the analyzed listings as an HTML table and a JSON API until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: web.addr from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	addr := cfg.Web.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := web.NewServer(web.NewHandler(st, logger), logger)
	if err := web.Serve(ctx, addr, engine, logger); err != nil {
		return fmt.Errorf("listing page: %w", err)
	}
	logger.Info("goodbye")
	return nil
}
