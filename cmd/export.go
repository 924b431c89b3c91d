package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:       "export [day|week|month|year|all]",
	Short:     "Export time entries of a period (default all) to stdout",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: periodNames(),
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml")
}

func runExport(cmd *cobra.Command, args []string) error {
	period := timecalc.All
	if len(args) == 1 {
		p, err := timecalc.ParsePeriod(args[0])
		if err != nil {
			return err
		}
		period = p
	}
	t := now()

	entries, err := app.ledger.EntriesForPeriod(period, t)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []model.TimeEntry{}
	}

	out := cmd.OutOrStdout()
	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("error encoding YAML: %w", err)
		}
		return enc.Close()
	case "csv":
		printCSV(out, entries, t)
	default:
		return fmt.Errorf("unknown export format %q (want csv, json or yaml)", exportFormat)
	}
	return nil
}

func printCSV(w io.Writer, entries []model.TimeEntry, now time.Time) {
	fmt.Fprintln(w, "id,date,project,tag,start,end,duration_minutes")
	loc := now.Location()
	for _, e := range entries {
		start := e.Start.In(loc)
		date := start.Format("2006-01-02")
		startStr := start.Format(time.RFC3339)
		endStr := ""
		if e.End != nil {
			endStr = e.End.In(loc).Format(time.RFC3339)
		}
		durMin := int64(e.Duration(now).Minutes())
		fmt.Fprintf(w, "%d,%s,%s,%s,%s,%s,%d\n",
			e.ID,
			csvEscape(date),
			csvEscape(e.Project),
			csvEscape(e.TagOrEmpty()),
			csvEscape(startStr),
			csvEscape(endStr),
			durMin,
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
