package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/credential"
)

var secretKeys = []string{
	credential.KeyGitHubPAT,
	credential.KeyServiceNowPassword,
	credential.KeyWebhookToken,
}

var forgetCmd = &cobra.Command{
	Use:       "forget [key...]",
	Short:     "Remove stored credentials from the keyring",
	Long:      "Remove stored credentials from the keyring. Without arguments every key is removed.",
	Args:      cobra.OnlyValidArgs,
	ValidArgs: secretKeys,
	RunE:      runForget,
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}

func runForget(cmd *cobra.Command, args []string) error {
	if creds == nil {
		return errors.New("no system keyring available")
	}
	if len(args) == 0 {
		args = secretKeys
	}

	for _, key := range args {
		if err := creds.Delete(key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", key)
	}
	return nil
}
