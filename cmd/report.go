package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timelog/internal/ledger"
	"github.com/Tiliavir/timelog/internal/report"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report <day|week|month|year|all> <project> [tag]",
	Short: "Show aggregated time for a period, project and optional tag",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "Output format: md, csv, json (default from config)")
}

// reportHeader identifies what a report covers.
type reportHeader struct {
	Period  string  `json:"period"`
	Label   string  `json:"label"`
	Project string  `json:"project"`
	Tag     *string `json:"tag"`
}

func runReport(cmd *cobra.Command, args []string) error {
	period, err := timecalc.ParsePeriod(args[0])
	if err != nil {
		return err
	}
	q := ledger.Query{Period: period, Project: args[1]}
	if len(args) == 3 && args[2] != "" {
		q.Tag = &args[2]
	}
	t := now()

	entries, err := app.ledger.FetchEntries(q, t)
	if err != nil {
		return err
	}
	sum := report.Summarize(entries, t)
	hdr := reportHeader{Period: string(period), Label: period.Label(t), Project: q.Project, Tag: q.Tag}

	format := reportFormat
	if format == "" {
		format = app.cfg.ReportFormat
	}

	out := cmd.OutOrStdout()
	switch format {
	case "csv":
		printReportCSV(out, sum)
	case "json":
		return printReportJSON(out, hdr, sum)
	case "md", "":
		printReportMD(out, hdr, sum)
	default:
		return fmt.Errorf("unknown report format %q (want md, csv or json)", format)
	}
	return nil
}

func printReportMD(w io.Writer, hdr reportHeader, sum report.Summary) {
	title := fmt.Sprintf("%s – %s", hdr.Project, hdr.Label)
	if hdr.Tag != nil {
		title = fmt.Sprintf("%s [%s] – %s", hdr.Project, *hdr.Tag, hdr.Label)
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "--------------------------------")
	if sum.Entries == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}
	for _, d := range sum.Days {
		fmt.Fprintf(w, "%-20s%s\n", d.Date, timecalc.FormatDuration(d.Seconds))
	}
	if len(sum.Tags) > 1 || (len(sum.Tags) == 1 && sum.Tags[0].Tag != "") {
		fmt.Fprintln(w, "--------------------------------")
		for _, tg := range sum.Tags {
			name := tg.Tag
			if name == "" {
				name = "(untagged)"
			}
			fmt.Fprintf(w, "%-20s%s\n", name, timecalc.FormatDuration(tg.Seconds))
		}
	}
	fmt.Fprintln(w, "--------------------------------")
	total := timecalc.FormatDuration(sum.TotalSeconds)
	if sum.Running {
		total += " (running)"
	}
	fmt.Fprintf(w, "%-20s%s\n", "Total", total)
}

func printReportCSV(w io.Writer, sum report.Summary) {
	fmt.Fprintln(w, "date,duration_minutes")
	for _, d := range sum.Days {
		fmt.Fprintf(w, "%s,%d\n", d.Date, d.Seconds/60)
	}
}

func printReportJSON(w io.Writer, hdr reportHeader, sum report.Summary) error {
	data, err := json.MarshalIndent(struct {
		reportHeader
		report.Summary
	}{hdr, sum}, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
