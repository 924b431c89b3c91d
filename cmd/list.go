package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects or time entries",
}

var listProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List all projects",
	Args:  cobra.NoArgs,
	RunE:  runListProjects,
}

var listEntriesCmd = &cobra.Command{
	Use:       "entries <day|week|month|year|all>",
	Short:     "List all time entries for a period",
	Args:      cobra.ExactArgs(1),
	ValidArgs: periodNames(),
	RunE:      runListEntries,
}

func init() {
	listCmd.AddCommand(listProjectsCmd)
	listCmd.AddCommand(listEntriesCmd)
}

func periodNames() []string {
	names := make([]string, 0, len(timecalc.Periods))
	for _, p := range timecalc.Periods {
		names = append(names, string(p))
	}
	return names
}

func runListProjects(cmd *cobra.Command, args []string) error {
	names, err := app.ledger.ListProjects()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return nil
	}
	for _, name := range names {
		fmt.Fprintf(out, "Project: %s\n", name)
	}
	return nil
}

func runListEntries(cmd *cobra.Command, args []string) error {
	period, err := timecalc.ParsePeriod(args[0])
	if err != nil {
		return err
	}
	t := now()

	entries, err := app.ledger.EntriesForPeriod(period, t)
	if err != nil {
		return err
	}

	printList(cmd.OutOrStdout(), entries, t.Location())
	return nil
}

// printList prints one line per entry.
func printList(w io.Writer, entries []model.TimeEntry, loc *time.Location) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}

	for _, e := range entries {
		endStr := "ongoing"
		if e.End != nil {
			endStr = e.End.In(loc).Format("15:04")
		}
		fmt.Fprintf(w, "[%d] Project: %s, Tag: %s, Start: %s, End: %s\n",
			e.ID, e.Project, e.TagOrEmpty(), e.Start.In(loc).Format("15:04"), endStr)
	}
}
