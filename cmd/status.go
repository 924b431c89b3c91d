package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timelog/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current timer status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	t := now()
	out := cmd.OutOrStdout()

	entries, err := app.ledger.ListEntries()
	if err != nil {
		return err
	}

	for _, e := range entries {
		if !e.Running() {
			continue
		}
		fmt.Fprintln(out, "Running:")
		fmt.Fprintf(out, "  Project: %s\n", e.Project)
		if e.Tag != nil {
			fmt.Fprintf(out, "  Tag: %s\n", *e.Tag)
		}
		fmt.Fprintf(out, "  Since: %s\n", e.Start.In(t.Location()).Format("15:04"))
		fmt.Fprintf(out, "  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(int64(e.Duration(t).Seconds())))
		return nil
	}

	// Idle: show today's and this week's totals.
	monday, sunday := timecalc.WeekRange(t)
	var today, week int64
	for _, e := range entries {
		sec := int64(e.Duration(t).Seconds())
		start := e.Start.In(t.Location())
		if timecalc.SameDay(start, t) {
			today += sec
		}
		if !start.Before(monday) && !start.After(sunday) {
			week += sec
		}
	}

	fmt.Fprintln(out, "No active timer.")
	fmt.Fprintf(out, "Today: %s logged.\n", timecalc.FormatDuration(today))
	fmt.Fprintf(out, "This week: %s logged.\n", timecalc.FormatDuration(week))
	return nil
}
