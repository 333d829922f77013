package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/credential"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source/github"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/theme"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the GitHub token and the record store connection",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	var failed bool

	report := func(label, detail string, err error) {
		if err != nil {
			failed = true
			fmt.Fprintf(out, "%s%s %v\n", theme.LabelStyle.Render(label), theme.OutcomeStyle(false).Render("FAIL"), err)
			return
		}
		fmt.Fprintf(out, "%s%s %s\n", theme.LabelStyle.Render(label), theme.OutcomeStyle(true).Render("OK"), detail)
	}

	settings, err := resolveSettings()
	switch {
	case err != nil:
		report("github", "", err)
	case !settings.Configured():
		report("github", "", errors.New("no token configured (set "+tokenHint()+")"))
	default:
		name, err := github.NewClient(nil).ValidateConnection(ctx, settings)
		report("github", name, err)
	}

	records, closeFn, err := openRecordStore()
	if err != nil {
		report(cfg.RecordStore.Backend, "", err)
	} else {
		defer closeFn()
		name, err := records.ValidateConnection(ctx)
		report(string(records.Type()), name, err)
	}

	if failed {
		return errors.New("connection check failed")
	}
	return nil
}

func tokenHint() string {
	return credential.EnvVar(credential.KeyGitHubPAT) + " or run provtrigger configure"
}
