package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Record store backends.
const (
	BackendServiceNow = "servicenow"
	BackendSQLite     = "sqlite"
)

// GitHubConfig holds the repository_dispatch target.
type GitHubConfig struct {
	// Owner is the GitHub organization or user that owns the repository.
	Owner string `mapstructure:"owner" yaml:"owner" validate:"required"`

	// Repo is the repository whose workflows listen for the dispatch event.
	Repo string `mapstructure:"repo" yaml:"repo" validate:"required"`

	// APIBaseURL is the REST API root (https://api.github.com for github.com).
	APIBaseURL string `mapstructure:"api_base_url" yaml:"api_base_url" validate:"required,url"`

	// TimeoutSec bounds the single dispatch call.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec" validate:"gte=1"`
}

// ServiceNowConfig holds the connection settings for the ITSM Table API.
type ServiceNowConfig struct {
	// InstanceURL is the root URL of the instance
	// (e.g., https://umich.service-now.com).
	InstanceURL string `mapstructure:"instance_url" yaml:"instance_url"`

	// Username is the integration account used for Basic authentication.
	// The password lives in the keyring or PROVTRIGGER_SERVICENOW_PASSWORD.
	Username string `mapstructure:"username" yaml:"username"`

	// TimeoutSec bounds each Table API call.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec" validate:"gte=1"`
}

// RecordStoreConfig selects where request records are read from and
// where work notes are written back.
type RecordStoreConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend" validate:"oneof=servicenow sqlite"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

// TriggerConfig describes which record transitions start a dispatch.
type TriggerConfig struct {
	// InProgressState is the state value a record must enter.
	InProgressState string `mapstructure:"in_progress_state" yaml:"in_progress_state" validate:"required"`

	// CatalogItems lists the catalog item names that qualify.
	CatalogItems []string `mapstructure:"catalog_items" yaml:"catalog_items" validate:"min=1"`
}

// ServerConfig holds the webhook listener settings.
type ServerConfig struct {
	Addr            string `mapstructure:"addr" yaml:"addr" validate:"required"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
}

// IdentityConfig holds the identity resolution fallback.
type IdentityConfig struct {
	FallbackEmail string `mapstructure:"fallback_email" yaml:"fallback_email" validate:"required,email"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	GitHub      GitHubConfig      `mapstructure:"github" yaml:"github"`
	ServiceNow  ServiceNowConfig  `mapstructure:"servicenow" yaml:"servicenow"`
	RecordStore RecordStoreConfig `mapstructure:"record_store" yaml:"record_store"`
	Trigger     TriggerConfig     `mapstructure:"trigger" yaml:"trigger"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Identity    IdentityConfig    `mapstructure:"identity" yaml:"identity"`
}

// EnvPrefix is the prefix for environment overrides (PROVTRIGGER_GITHUB_OWNER).
const EnvPrefix = "PROVTRIGGER"

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/provtrigger/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "provtrigger", "config.yaml")
}

// DefaultSQLitePath returns the default location of the local record mirror.
func DefaultSQLitePath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "records.db")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		GitHub: GitHubConfig{
			Owner:      "your-org",
			Repo:       "umm-cloud-provisioning",
			APIBaseURL: "https://api.github.com",
			TimeoutSec: 30,
		},
		ServiceNow: ServiceNowConfig{
			TimeoutSec: 30,
		},
		RecordStore: RecordStoreConfig{
			Backend:    BackendServiceNow,
			SQLitePath: DefaultSQLitePath(),
		},
		Trigger: TriggerConfig{
			InProgressState: "3",
			CatalogItems: []string{
				"Start Research Computing",
				"Request Secure PHI Research (AVE)",
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeoutSec:  10,
			WriteTimeoutSec: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Identity: IdentityConfig{
			FallbackEmail: DefaultFallbackEmail,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with PROVTRIGGER_ override file values.
// If the file does not exist, defaults (plus environment) are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values and so
	// AutomaticEnv can see every key during Unmarshal.
	def := DefaultAppConfig()
	v.SetDefault("github.owner", def.GitHub.Owner)
	v.SetDefault("github.repo", def.GitHub.Repo)
	v.SetDefault("github.api_base_url", def.GitHub.APIBaseURL)
	v.SetDefault("github.timeout_sec", def.GitHub.TimeoutSec)
	v.SetDefault("servicenow.instance_url", "")
	v.SetDefault("servicenow.username", "")
	v.SetDefault("servicenow.timeout_sec", def.ServiceNow.TimeoutSec)
	v.SetDefault("record_store.backend", def.RecordStore.Backend)
	v.SetDefault("record_store.sqlite_path", def.RecordStore.SQLitePath)
	v.SetDefault("trigger.in_progress_state", def.Trigger.InProgressState)
	v.SetDefault("trigger.catalog_items", def.Trigger.CatalogItems)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.read_timeout_sec", def.Server.ReadTimeoutSec)
	v.SetDefault("server.write_timeout_sec", def.Server.WriteTimeoutSec)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("identity.fallback_email", def.Identity.FallbackEmail)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *AppConfig) Validate() error {
	// ServiceNow.InstanceURL is not required here so that `configure`
	// can run against an empty file; record store constructors check it.
	return validator.New().Struct(c)
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("github", cfg.GitHub)
	v.Set("servicenow", cfg.ServiceNow)
	v.Set("record_store", cfg.RecordStore)
	v.Set("trigger", cfg.Trigger)
	v.Set("server", cfg.Server)
	v.Set("logging", cfg.Logging)
	v.Set("identity", cfg.Identity)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
