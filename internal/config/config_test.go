package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	path := writeConfig(t, `
database:
  path: /tmp/jobs.db
scrape:
  schedule: "@every 30m"
analyzer:
  poll_interval: 15s
web:
  addr: ":8080"
providers:
  - name: remoteok
    kind: remoteok
    enabled: true
  - name: acme
    kind: Greenhouse
    board_token: acme
    enabled: false
filters:
  title_keywords:
    - engineer
  exclude_locations:
    - US only
rate_limit:
  min_delay: 1s
  overrides:
    greenhouse: 3s
retry:
  max_retries: 0
  base_delay: 2s
ai:
  model: gpt-4o
  api_key: ${TEST_OPENAI_KEY}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/tmp/jobs.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Scrape.Schedule != "@every 30m" {
		t.Errorf("Scrape.Schedule = %q", cfg.Scrape.Schedule)
	}
	if cfg.Analyzer.PollInterval != 15*time.Second {
		t.Errorf("PollInterval = %v, want 15s", cfg.Analyzer.PollInterval)
	}
	if cfg.Web.Addr != ":8080" {
		t.Errorf("Web.Addr = %q", cfg.Web.Addr)
	}
	if len(cfg.Providers) != 2 || cfg.Providers[1].Kind != KindGreenhouse {
		t.Errorf("Providers = %+v", cfg.Providers)
	}
	if got := cfg.EnabledProviders(); len(got) != 1 || got[0].Name != "remoteok" {
		t.Errorf("EnabledProviders = %+v", got)
	}
	if len(cfg.Filters.TitleKeywords) != 1 || cfg.Filters.ExcludeLocations[0] != "US only" {
		t.Errorf("Filters = %+v", cfg.Filters)
	}
	if cfg.RateLimit.MinDelay != time.Second || cfg.RateLimit.Overrides["greenhouse"] != 3*time.Second {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
	if cfg.Retry.MaxRetries != 0 || cfg.Retry.BaseDelay != 2*time.Second {
		t.Errorf("Retry = %+v, explicit zero retries must be kept", cfg.Retry)
	}
	if !cfg.AI.Enabled || cfg.AI.APIKey != "sk-test" || cfg.AI.Model != "gpt-4o" {
		t.Errorf("AI = %+v", cfg.AI)
	}
	if cfg.AI.BaseURL != defaultOpenAIBaseURL {
		t.Errorf("AI.BaseURL = %q, want default", cfg.AI.BaseURL)
	}
	if err := cfg.ValidateScoring(); err != nil {
		t.Errorf("ValidateScoring: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
providers:
  - kind: remoteok
    enabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != defaultDBPath {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Scrape.Schedule != defaultSchedule {
		t.Errorf("Scrape.Schedule = %q", cfg.Scrape.Schedule)
	}
	if cfg.Analyzer.PollInterval != 60*time.Second {
		t.Errorf("PollInterval = %v, want 60s", cfg.Analyzer.PollInterval)
	}
	if cfg.Web.Addr != ":5000" {
		t.Errorf("Web.Addr = %q", cfg.Web.Addr)
	}
	if cfg.Providers[0].Name != "remoteok" {
		t.Errorf("provider name should default to kind, got %q", cfg.Providers[0].Name)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q, want log", cfg.Notification.Type)
	}
	if cfg.Retry.MaxRetries != defaultMaxRetries {
		t.Errorf("MaxRetries = %d", cfg.Retry.MaxRetries)
	}
	if err := cfg.ValidateScoring(); err == nil {
		t.Error("ValidateScoring should fail without an api key")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml")); err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "providers: [broken")); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "no enabled provider",
			content: "providers:\n  - kind: remoteok\n    enabled: false\n",
			wantErr: "at least one provider",
		},
		{
			name:    "unknown kind",
			content: "providers:\n  - kind: workday\n    enabled: true\n",
			wantErr: "unknown kind",
		},
		{
			name:    "missing board token",
			content: "providers:\n  - kind: lever\n    enabled: true\n",
			wantErr: "board_token",
		},
		{
			name:    "duplicate names",
			content: "providers:\n  - kind: remoteok\n    enabled: true\n  - kind: remoteok\n    enabled: true\n",
			wantErr: "used twice",
		},
		{
			name:    "zero poll interval",
			content: "analyzer:\n  poll_interval: 0s\nproviders:\n  - kind: remoteok\n    enabled: true\n",
			wantErr: "poll_interval",
		},
		{
			name:    "bad duration",
			content: "analyzer:\n  poll_interval: soon\nproviders:\n  - kind: remoteok\n    enabled: true\n",
			wantErr: "poll_interval",
		},
		{
			name:    "bad override",
			content: "rate_limit:\n  overrides:\n    lever: fast\nproviders:\n  - kind: remoteok\n    enabled: true\n",
			wantErr: "overrides",
		},
		{
			name:    "slack without webhook",
			content: "notification:\n  type: slack\nproviders:\n  - kind: remoteok\n    enabled: true\n",
			wantErr: "webhook_url",
		},
		{
			name:    "slack with foreign webhook",
			content: "notification:\n  type: slack\n  webhook_url: https://example.com/hook\nproviders:\n  - kind: remoteok\n    enabled: true\n",
			wantErr: "hooks.slack.com",
		},
		{
			name:    "unknown notifier",
			content: "notification:\n  type: email\nproviders:\n  - kind: remoteok\n    enabled: true\n",
			wantErr: "notification.type",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateScoring_Disabled(t *testing.T) {
	cfg := &Config{AI: AIConfig{Enabled: false, APIKey: "x"}}
	if err := cfg.ValidateScoring(); err == nil {
		t.Error("expected error when ai is disabled")
	}
}
