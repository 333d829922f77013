package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/ui"
)

var previewJSON bool

var previewCmd = &cobra.Command{
	Use:   "preview <ritm>",
	Short: "Show the dispatch payload for a requested item without sending it",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "print the request body instead of the summary")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
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

	prep := newHandler(records).Prepare(ctx, settings, rec)

	if previewJSON {
		body, err := json.MarshalIndent(prep.Payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(body))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderPreview(rec, settings, prep))
	return nil
}
