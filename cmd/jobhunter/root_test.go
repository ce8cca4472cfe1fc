package main

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobhunter/internal/config"
)

const testConfig = `
providers:
  - kind: remoteok
    enabled: true
  - name: acme
    kind: greenhouse
    board_token: acme
    enabled: true
  - name: globex
    kind: lever
    board_token: globex
    enabled: false
filters:
  title_keywords: ["backend"]
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	return path
}

func TestLoadConfig_EnvFallback(t *testing.T) {
	t.Setenv("JOBHUNTER_CONFIG", writeConfig(t))

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Len(t, cfg.Providers, 3)
}

func TestLoadConfig_ExplicitPathWins(t *testing.T) {
	t.Setenv("JOBHUNTER_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := loadConfig(writeConfig(t))
	require.NoError(t, err)
}

func TestBuildProviders_SkipsDisabled(t *testing.T) {
	cfg, err := config.Load(writeConfig(t))
	require.NoError(t, err)

	providers := buildProviders(cfg, http.DefaultClient, discardLogger())
	require.Len(t, providers, 2)
	assert.Equal(t, "remoteok", providers[0].Name())
	assert.Equal(t, "acme", providers[1].Name())
}

func TestCreateProvider_UnknownKind(t *testing.T) {
	_, ok := createProvider(config.ProviderConfig{Name: "x", Kind: "workday"}, http.DefaultClient, discardLogger())
	assert.False(t, ok)
}

func TestSetupNotifier(t *testing.T) {
	cfg := &config.Config{}
	cfg.Notification.Type = "none"
	assert.Nil(t, setupNotifier(cfg, http.DefaultClient, discardLogger()))

	cfg.Notification.Type = "log"
	assert.NotNil(t, setupNotifier(cfg, http.DefaultClient, discardLogger()))
}

func TestSetupFilter_EmptyMeansNoFilter(t *testing.T) {
	assert.Nil(t, setupFilter(&config.Config{}))

	cfg := &config.Config{}
	cfg.Filters.TitleKeywords = []string{"go"}
	assert.NotNil(t, setupFilter(cfg))
}
