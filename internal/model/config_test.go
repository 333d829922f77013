package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	def := DefaultAppConfig()
	assert.Equal(t, def.GitHub, cfg.GitHub)
	assert.Equal(t, def.Trigger, cfg.Trigger)
	assert.Equal(t, BackendServiceNow, cfg.RecordStore.Backend)
	assert.Equal(t, DefaultFallbackEmail, cfg.Identity.FallbackEmail)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("PROVTRIGGER_GITHUB_OWNER", "umich-arc")
	t.Setenv("PROVTRIGGER_RECORD_STORE_BACKEND", "sqlite")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "umich-arc", cfg.GitHub.Owner)
	assert.Equal(t, BackendSQLite, cfg.RecordStore.Backend)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`github:
  owner: umich-arc
  timeout_sec: 5
trigger:
  catalog_items:
    - Start Research Computing
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "umich-arc", cfg.GitHub.Owner)
	assert.Equal(t, "umm-cloud-provisioning", cfg.GitHub.Repo)
	assert.Equal(t, 5, cfg.GitHub.TimeoutSec)
	assert.Equal(t, []string{"Start Research Computing"}, cfg.Trigger.CatalogItems)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`record_store:
  backend: oracle
`), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating config")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.GitHub.Owner = "umich-arc"
	cfg.ServiceNow.InstanceURL = "https://umich.service-now.com"
	cfg.ServiceNow.Username = "svc"
	cfg.Logging.Format = "console"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.GitHub, loaded.GitHub)
	assert.Equal(t, cfg.ServiceNow, loaded.ServiceNow)
	assert.Equal(t, "console", loaded.Logging.Format)
}

func TestNewSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.GitHub.APIBaseURL = "https://ghe.example.com/api/v3/"
	cfg.Identity.FallbackEmail = ""

	s := NewSettings(cfg, Secrets{GitHubPAT: "  ghp_x \n"})

	assert.Equal(t, "ghp_x", s.PAT)
	assert.True(t, s.Configured())
	assert.Equal(t, 30*time.Second, s.Timeout)
	assert.Equal(t, DefaultFallbackEmail, s.FallbackEmail)
	assert.Equal(t, "https://ghe.example.com/api/v3/repos/your-org/umm-cloud-provisioning/dispatches", s.DispatchURL())
	assert.Equal(t, "https://ghe.example.com/api/v3/repos/your-org/umm-cloud-provisioning", s.RepoURL())

	assert.False(t, NewSettings(cfg, Secrets{GitHubPAT: "   "}).Configured())
}
