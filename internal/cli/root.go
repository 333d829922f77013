// Package cli implements the provtrigger command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/credential"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/logging"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/payload"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source/github"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source/servicenow"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/store"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/trigger"
)

var (
	cfgFile string
	envFile string

	cfg    *model.AppConfig
	logger *zap.Logger
	creds  *credential.Store
)

// openKeyring is replaced in tests so no system keyring is touched.
var openKeyring = credential.Open

var rootCmd = &cobra.Command{
	Use:   "provtrigger",
	Short: "Research computing provisioning trigger",
	Long: `provtrigger starts the cloud provisioning workflow for approved
research computing requests.

It reads a requested item from ServiceNow (or a local SQLite mirror),
builds the repository_dispatch payload, sends it to GitHub once and
writes the outcome back to the item's work notes.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/provtrigger/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
}

func initRuntime(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	if cfgFile == "" {
		cfgFile = model.DefaultConfigPath()
	}

	var err error
	cfg, err = model.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	creds, err = openKeyring()
	if err != nil {
		// Environment variables still work without a keyring.
		logger.Warn("keyring unavailable", zap.Error(err))
		creds = nil
	}
	return nil
}

// resolveSettings builds the Settings of one invocation from the loaded
// config and the current secrets.
func resolveSettings() (model.Settings, error) {
	secrets, err := creds.Secrets()
	if err != nil {
		return model.Settings{}, fmt.Errorf("resolving secrets: %w", err)
	}
	return model.NewSettings(cfg, secrets), nil
}

// openRecordStore returns the configured backend and a function that
// releases it.
func openRecordStore() (source.RecordStore, func() error, error) {
	switch cfg.RecordStore.Backend {
	case model.BackendSQLite:
		s, err := store.NewSQLiteStore(cfg.RecordStore.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case model.BackendServiceNow:
		if cfg.ServiceNow.InstanceURL == "" || cfg.ServiceNow.Username == "" {
			return nil, nil, fmt.Errorf("servicenow.instance_url and servicenow.username must be set (run provtrigger configure)")
		}
		secrets, err := creds.Secrets()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving secrets: %w", err)
		}
		a := servicenow.NewAdapter(
			cfg.ServiceNow.InstanceURL,
			cfg.ServiceNow.Username,
			secrets.ServiceNowPassword,
			secondsOf(cfg.ServiceNow.TimeoutSec),
		)
		return a, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown record store backend %q", cfg.RecordStore.Backend)
	}
}

func newHandler(records source.RecordStore) *trigger.Handler {
	return trigger.NewHandler(records, github.NewClient(nil), payload.NewDefaultBuilder(), logger)
}

// loadRecord fetches a requested item by sys_id or number.
func loadRecord(ctx context.Context, records source.RecordStore, id string) (model.Record, error) {
	rec, err := records.GetRecord(ctx, id)
	if err != nil {
		return model.Record{}, err
	}
	return *rec, nil
}
