package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider kinds understood by the adapter factory.
const (
	KindRemoteOK   = "remoteok"
	KindGreenhouse = "greenhouse"
	KindLever      = "lever"
	KindAshby      = "ashby"
)

// Config is the root configuration for jobhunter.
type Config struct {
	Database     DatabaseConfig
	Scrape       ScrapeConfig
	Analyzer     AnalyzerConfig
	Web          WebConfig
	Providers    []ProviderConfig
	Filters      FilterConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
	Retry        RetryConfig
	AI           AIConfig
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string
}

// ScrapeConfig controls the scrape scheduler.
type ScrapeConfig struct {
	Schedule string // cron spec, e.g. "@every 1h"
}

// AnalyzerConfig controls the analysis poll loop.
type AnalyzerConfig struct {
	PollInterval time.Duration
}

// WebConfig controls the listing page server.
type WebConfig struct {
	Addr string
}

// AIConfig controls the OpenAI scoring collaborator.
type AIConfig struct {
	Enabled bool
	BaseURL string        // defaults to https://api.openai.com/v1
	Model   string        // OpenAI model identifier, e.g. "gpt-4o-mini"
	APIKey  string        // expanded from env var by Load
	Timeout time.Duration // per-request timeout
}

// RateLimitConfig controls per-kind request spacing.
type RateLimitConfig struct {
	MinDelay  time.Duration            // minimum gap between requests to the same provider kind
	Overrides map[string]time.Duration // keyed by provider kind
}

// RetryConfig controls retries of transient provider and scorer failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log", "slack" or "none"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// ProviderConfig describes a single job source.
type ProviderConfig struct {
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`
	BoardToken string `yaml:"board_token"` // greenhouse token, lever slug or ashby board
	Enabled    bool   `yaml:"enabled"`
}

// FilterConfig holds keyword and location filter settings.
type FilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
	Locations            []string `yaml:"locations"`
	ExcludeLocations     []string `yaml:"exclude_locations"`
}

// EnabledProviders returns the providers with enabled set, in file order.
func (c *Config) EnabledProviders() []ProviderConfig {
	var out []ProviderConfig
	for _, p := range c.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

const (
	defaultDBPath         = "data/jobs.db"
	defaultSchedule       = "@every 1h"
	defaultPollInterval   = 60 * time.Second
	defaultWebAddr        = ":5000"
	defaultMinDelay       = 2 * time.Second
	defaultMaxRetries     = 2
	defaultRetryBaseDelay = 5 * time.Second
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAITimeout      = 30 * time.Second
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Scrape struct {
		Schedule string `yaml:"schedule"`
	} `yaml:"scrape"`
	Analyzer struct {
		PollInterval string `yaml:"poll_interval"`
	} `yaml:"analyzer"`
	Web struct {
		Addr string `yaml:"addr"`
	} `yaml:"web"`
	Providers    []ProviderConfig   `yaml:"providers"`
	Filters      FilterConfig       `yaml:"filters"`
	Notification NotificationConfig `yaml:"notification"`
	RateLimit    rawRateLimitConfig `yaml:"rate_limit"`
	Retry        rawRetryConfig     `yaml:"retry"`
	AI           rawAIConfig        `yaml:"ai"`
}

type rawAIConfig struct {
	Enabled *bool  `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

type rawRateLimitConfig struct {
	MinDelay  string            `yaml:"min_delay"`
	Overrides map[string]string `yaml:"overrides"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

// Load reads and parses the YAML config file at path, applies defaults,
// validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	pollInterval, err := parseDuration("analyzer.poll_interval", raw.Analyzer.PollInterval, defaultPollInterval)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("rate_limit.min_delay", raw.RateLimit.MinDelay, defaultMinDelay)
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDuration("retry.base_delay", raw.Retry.BaseDelay, defaultRetryBaseDelay)
	if err != nil {
		return nil, err
	}
	aiTimeout, err := parseDuration("ai.timeout", raw.AI.Timeout, defaultAITimeout)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]time.Duration)
	for kind, v := range raw.RateLimit.Overrides {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.overrides[%q]: %w", kind, err)
		}
		overrides[kind] = d
	}

	maxRetries := defaultMaxRetries
	if raw.Retry.MaxRetries != nil {
		maxRetries = *raw.Retry.MaxRetries
	}

	aiEnabled := true
	if raw.AI.Enabled != nil {
		aiEnabled = *raw.AI.Enabled
	}

	providers := make([]ProviderConfig, len(raw.Providers))
	for i, p := range raw.Providers {
		p.Kind = strings.ToLower(strings.TrimSpace(p.Kind))
		if p.Name == "" {
			p.Name = p.Kind
		}
		providers[i] = p
	}

	notification := raw.Notification
	if notification.Type == "" {
		notification.Type = "log"
	}

	cfg := &Config{
		Database:     DatabaseConfig{Path: orDefault(raw.Database.Path, defaultDBPath)},
		Scrape:       ScrapeConfig{Schedule: orDefault(raw.Scrape.Schedule, defaultSchedule)},
		Analyzer:     AnalyzerConfig{PollInterval: pollInterval},
		Web:          WebConfig{Addr: orDefault(raw.Web.Addr, defaultWebAddr)},
		Providers:    providers,
		Filters:      raw.Filters,
		Notification: notification,
		RateLimit: RateLimitConfig{
			MinDelay:  minDelay,
			Overrides: overrides,
		},
		Retry: RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  retryDelay,
		},
		AI: AIConfig{
			Enabled: aiEnabled,
			BaseURL: orDefault(raw.AI.BaseURL, defaultOpenAIBaseURL),
			Model:   orDefault(raw.AI.Model, defaultOpenAIModel),
			APIKey:  raw.AI.APIKey,
			Timeout: aiTimeout,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(field, v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, v, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func validate(cfg *Config) error {
	if cfg.Analyzer.PollInterval <= 0 {
		return fmt.Errorf("analyzer.poll_interval must be positive, got %v", cfg.Analyzer.PollInterval)
	}
	if cfg.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative, got %v", cfg.RateLimit.MinDelay)
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}

	enabled := 0
	seen := make(map[string]bool)
	for _, p := range cfg.Providers {
		switch p.Kind {
		case KindRemoteOK:
		case KindGreenhouse, KindLever, KindAshby:
			if p.BoardToken == "" {
				return fmt.Errorf("provider %q: board_token is required for kind %q", p.Name, p.Kind)
			}
		default:
			return fmt.Errorf("provider %q: unknown kind %q", p.Name, p.Kind)
		}
		if seen[p.Name] {
			return fmt.Errorf("provider name %q is used twice", p.Name)
		}
		seen[p.Name] = true
		if p.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one provider must be enabled")
	}

	switch cfg.Notification.Type {
	case "log", "none":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be log, slack or none, got %q", cfg.Notification.Type)
	}

	// the API key is checked by commands that score, so scrape-only setups
	// can run without one
	if cfg.AI.Enabled && cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
	}

	return nil
}

// ValidateScoring reports whether the AI section can drive the analyzer.
func (c *Config) ValidateScoring() error {
	if !c.AI.Enabled {
		return fmt.Errorf("ai.enabled is false; scoring is required for analysis")
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required for analysis (set OPENAI_API_KEY)")
	}
	return nil
}
