package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scepter-sec/scepter/internal/config"
	"github.com/scepter-sec/scepter/internal/history"
	"github.com/scepter-sec/scepter/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or show previously recorded scans",
		Long: `History lists scans recorded in the local history database.

Scans are recorded automatically unless "scan --no-history" was used.
The database lives in the XDG data directory.

Examples:
  # List the most recent scans
  scepter history

  # Show a stored scan's full report as JSON
  scepter history --show 3`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "N", 20, "Maximum number of scans to list")
	cmd.Flags().Int64P("show", "s", 0, "Show the full report for the given scan id")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	db, err := history.Open(config.XDGDataDir())
	if err != nil {
		return err
	}
	defer db.Close()

	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}

	if showID > 0 {
		stored, err := db.GetReport(cmd.Context(), showID)
		if err != nil {
			return err
		}
		w := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
		_, err = w.Write(stored)
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	summaries, err := db.ListScans(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded scans.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%-5s  %-20s  %8s  %8s  %6s\n",
		"ID", "Started", "Targets", "Detected", "Failed")
	for _, s := range summaries {
		fmt.Fprintf(cmd.OutOrStdout(), "%-5d  %-20s  %8d  %8d  %6d\n",
			s.ID, s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.Targets, s.Detected, s.Failed)
	}

	return nil
}
