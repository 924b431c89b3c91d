package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <project> [tag]",
	Short: "Start tracking time for a project with an optional tag",
	Long: `Start tracking time for a project with an optional tag.
A timer running for another project is stopped at the same moment.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	project := args[0]
	var tag *string
	if len(args) == 2 && args[1] != "" {
		tag = &args[1]
	}
	at := now()

	res, err := app.ledger.StartEntry(project, tag, at)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Stopped != nil {
		elapsed := int64(res.Stopped.Duration(at).Seconds())
		fmt.Fprintf(out, "Stopped %s. Elapsed: %s\n", res.Stopped.Project, formatElapsed(elapsed))
	}
	if tag != nil {
		fmt.Fprintf(out, "Started %s with tag %s at %s\n", res.Started.Project, *tag, at.Format("15:04"))
	} else {
		fmt.Fprintf(out, "Started %s at %s\n", res.Started.Project, at.Format("15:04"))
	}
	return nil
}
