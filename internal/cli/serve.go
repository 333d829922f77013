package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/logging"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Listen for requested item events and trigger provisioning",
	Long: `Start the webhook listener. ServiceNow posts the requested item's
current and previous snapshot to /api/v1/events/ritm on every update;
qualifying transitions run one invocation each.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, closeFn, err := openRecordStore()
	if err != nil {
		return err
	}
	defer closeFn()

	secrets, err := creds.Secrets()
	if err != nil {
		return err
	}
	if secrets.WebhookToken == "" {
		logger.Warn("no webhook token configured, event endpoint is unauthenticated",
			logging.Backend(string(records.Type())))
	}

	srv := server.New(cfg.Server, cfg.Trigger, secrets.WebhookToken, newHandler(records), resolveSettings, logger)
	return srv.Run(ctx)
}
