package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/amishk599/jobhunter/internal/adapter"
	"github.com/amishk599/jobhunter/internal/ai"
	"github.com/amishk599/jobhunter/internal/config"
	"github.com/amishk599/jobhunter/internal/filter"
	"github.com/amishk599/jobhunter/internal/ingest"
	"github.com/amishk599/jobhunter/internal/model"
	"github.com/amishk599/jobhunter/internal/notifier"
	"github.com/amishk599/jobhunter/internal/ratelimit"
	"github.com/amishk599/jobhunter/internal/retry"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	debug   bool
)

var errNoProviders = errors.New("no enabled providers to scrape")

var rootCmd = &cobra.Command{
	Use:   "jobhunter",
	Short: "Scrape, score and browse job listings",
	Long:  "jobhunter scrapes job boards into SQLite, scores each listing with an LLM and serves the results.",
	// Runtime failures are returned from RunE so deferred store closes run;
	// they are not usage mistakes.
	SilenceUsage: true,
	// `jobhunter` with no args runs everything, same as `start`.
	RunE: runStart,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBHUNTER_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBHUNTER_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBHUNTER_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	case "none":
		return nil
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func setupFilter(cfg *config.Config) model.ListingFilter {
	opts := filter.Options{
		TitleKeywords:        cfg.Filters.TitleKeywords,
		TitleExcludeKeywords: cfg.Filters.TitleExcludeKeywords,
		Locations:            cfg.Filters.Locations,
		ExcludeLocations:     cfg.Filters.ExcludeLocations,
	}
	if opts.IsZero() {
		return nil
	}
	return filter.New(opts)
}

func retryPolicy(cfg *config.Config) retry.Policy {
	return retry.Policy{MaxRetries: cfg.Retry.MaxRetries, BaseDelay: cfg.Retry.BaseDelay}
}

// setupScorer builds the LLM scorer. Callers must run cfg.ValidateScoring first.
func setupScorer(cfg *config.Config, logger *slog.Logger) model.Scorer {
	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	provider := ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
	logger.Info("scoring enabled", "model", cfg.AI.Model)
	return ai.NewLLMScorer(provider, ai.ScoreListingTemplate, retryPolicy(cfg), logger)
}

func createProvider(p config.ProviderConfig, httpClient *http.Client, logger *slog.Logger) (model.Provider, bool) {
	switch p.Kind {
	case config.KindRemoteOK:
		return adapter.NewRemoteOKAdapter(p.Name, httpClient), true
	case config.KindGreenhouse:
		return adapter.NewGreenhouseAdapter(p.Name, p.BoardToken, httpClient), true
	case config.KindLever:
		return adapter.NewLeverAdapter(p.Name, p.BoardToken, httpClient), true
	case config.KindAshby:
		return adapter.NewAshbyAdapter(p.Name, p.BoardToken, httpClient), true
	default:
		logger.Warn("unsupported provider kind, skipping", "provider", p.Name, "kind", p.Kind)
		return nil, false
	}
}

// buildProviders turns the enabled config entries into decorated providers.
// Providers of the same kind share one rate-limit slot.
func buildProviders(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.Provider {
	limiter := ratelimit.NewLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.Overrides)
	logger.Debug("rate limiter configured", "min_delay", cfg.RateLimit.MinDelay.String())

	var providers []model.Provider
	for _, pc := range cfg.EnabledProviders() {
		p, ok := createProvider(pc, httpClient, logger)
		if !ok {
			continue
		}

		p = ratelimit.NewProvider(p, limiter, pc.Kind)
		p = retry.NewProvider(p, retryPolicy(cfg), logger)
		providers = append(providers, p)
		logger.Info("registered provider", "name", pc.Name, "kind", pc.Kind)
	}
	return providers
}

// buildPipeline wires the ingest pipeline for the scrape roles.
func buildPipeline(cfg *config.Config, st ingest.ListingStore, logger *slog.Logger) (*ingest.Pipeline, int) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	providers := buildProviders(cfg, httpClient, logger)
	n := setupNotifier(cfg, httpClient, logger)
	return ingest.NewPipeline(providers, setupFilter(cfg), st, n, logger), len(providers)
}
