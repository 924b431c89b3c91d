package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a time entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var updateCmd = &cobra.Command{
	Use:   "update <id> <start> <end>",
	Short: "Update start and end of a time entry",
	Long: `Update start and end of a time entry.
Timestamps use the format "YYYY-MM-DD HH:MM" in local time, e.g.

  timelog update 3 "2026-10-19 09:00" "2026-10-19 11:30"

Pass "ongoing" as end to reopen the entry.`,
	Args: cobra.ExactArgs(3),
	RunE: runUpdate,
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return id, nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := app.ledger.DeleteEntry(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d\n", id)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := app.ledger.UpdateEntry(id, args[1], args[2]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d\n", id)
	return nil
}
