package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/logging"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/store"
)

var (
	seedDB             string
	seedCatalogItem    string
	seedNumber         string
	seedState          string
	seedRequesterEmail string
	seedVars           []string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a requested item in the local SQLite mirror",
	Long: `Create a requested item with its variables in the SQLite record store.

Examples:
  # Standard research request
  provtrigger seed --var project_name=GenomeX --var grant_code=G-42

  # PHI request already in progress, with a requester
  provtrigger seed --catalog-item "Request Secure PHI Research (AVE)" \
    --state 3 --requester-email pi@umich.edu --var irb_number=HUM001`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedDB, "db", "", "SQLite file (default: record_store.sqlite_path)")
	seedCmd.Flags().StringVar(&seedCatalogItem, "catalog-item", "Start Research Computing", "catalog item name")
	seedCmd.Flags().StringVar(&seedNumber, "number", "", "ticket number (default: next RITM number)")
	seedCmd.Flags().StringVar(&seedState, "state", "1", "record state")
	seedCmd.Flags().StringVar(&seedRequesterEmail, "requester-email", "", "create a requester with this email")
	seedCmd.Flags().StringArrayVar(&seedVars, "var", nil, "variable as name=value (repeatable)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	vars, err := parseAssignments(seedVars)
	if err != nil {
		return err
	}

	path := seedDB
	if path == "" {
		path = cfg.RecordStore.SQLitePath
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer s.Close()

	var requesterID string
	if seedRequesterEmail != "" {
		userName, _, _ := strings.Cut(seedRequesterEmail, "@")
		requesterID, err = s.CreateUser(ctx, store.User{
			UserName: userName,
			Name:     userName,
			Email:    seedRequesterEmail,
		})
		if err != nil {
			return err
		}
	}

	requestID, err := s.CreateRequest(ctx, requesterID)
	if err != nil {
		return err
	}

	rec, err := s.CreateRequestItem(ctx, store.RequestItemSeed{
		Number:      seedNumber,
		RequestID:   requestID,
		CatalogItem: seedCatalogItem,
		State:       seedState,
	})
	if err != nil {
		return err
	}

	for _, v := range vars {
		if err := s.AddVariable(ctx, rec.SysID, v[0], v[1]); err != nil {
			return err
		}
	}

	logger.Info("seeded requested item", logging.Ticket(rec.Number), logging.RecordSysID(rec.SysID))
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", rec.SysID, rec.Number)
	return nil
}
