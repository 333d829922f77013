package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/keys"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source/github"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/ui/setup"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactively set the dispatch target, credentials and record store",
	Args:  cobra.NoArgs,
	RunE:  runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	if creds == nil {
		return errors.New("configure needs a system keyring to store credentials")
	}

	existing, err := creds.Secrets()
	if err != nil {
		return fmt.Errorf("resolving secrets: %w", err)
	}

	m := setup.New(cfg, cfgFile, existing, creds, github.NewClient(nil), keys.DefaultKeyMap())
	res, err := setup.Run(cmd.Context(), m)
	if err != nil {
		return err
	}

	switch {
	case res.Aborted:
		fmt.Fprintln(cmd.OutOrStdout(), "configure cancelled")
		return nil
	case res.Err != nil:
		return res.Err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "dispatch target %s saved to %s\n", res.Repository, cfgFile)
	return nil
}
