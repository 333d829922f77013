package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/ui"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger <ritm>",
	Short: "Run one provisioning invocation for a requested item",
	Long: `Dispatch the provisioning workflow for a requested item and write
the outcome to its work notes. The item is given by sys_id (or by number
with the SQLite backend).

The command exits non-zero only when the work notes could not be
written; a rejected dispatch is reported on the record.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}

func runTrigger(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	records, closeFn, err := openRecordStore()
	if err != nil {
		return err
	}
	defer closeFn()

	rec, err := loadRecord(ctx, records, args[0])
	if err != nil {
		return err
	}

	settings, err := resolveSettings()
	if err != nil {
		return err
	}

	res, err := newHandler(records).Invoke(ctx, settings, rec)
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderResult(rec, res))
	return err
}
