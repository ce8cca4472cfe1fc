package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/amishk599/jobhunter/internal/notifier"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification subcommands",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Push a sample listing through the configured notifier",
	Long:  "Builds the notifier from notification.type and sends one sample listing, so a Slack webhook can be checked before the first scrape.",
	RunE:  runNotifyTest,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	n := setupNotifier(cfg, &http.Client{Timeout: 15 * time.Second}, logger)
	if n == nil {
		return fmt.Errorf("notification.type is %q; nothing to send", cfg.Notification.Type)
	}

	if err := notifier.SendTestMessage(n); err != nil {
		return fmt.Errorf("%s notification: %w", cfg.Notification.Type, err)
	}
	logger.Info("sample listing delivered", "notifier", cfg.Notification.Type)
	return nil
}
