package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const failureSeparator = "------------------------------------------------------"

// TextOptions controls the human-readable report.
type TextOptions struct {
	// Color enables ANSI styling.
	Color bool

	// Table adds a per-suite breakdown after the summary lines.
	Table bool
}

// WriteText renders r for a terminal.
func WriteText(w io.Writer, r *Report, opts TextOptions) error {
	bw := bufio.NewWriter(w)
	pal := newPalette(w, opts.Color)
	p := message.NewPrinter(language.English)
	t := r.Totals

	p.Fprintln(bw, pal.paint(pal.header, "========SUMMARY========"))
	p.Fprintf(bw, "%d suites tested, %d passed without failures, and %d had at least one test failure.\n",
		t.Suites, t.PassedSuites, t.FailedSuites)
	p.Fprintf(bw, "%d tests total, %d tests passed, and %d failed.\n",
		t.Counts.Tests, t.Counts.PassedTests, t.Counts.FailedTests)
	p.Fprintf(bw, "%d total test configurations, %d passed, %d failed, and %d skipped.\n",
		t.Counts.Configurations, t.Counts.PassedConfigurations,
		t.Counts.FailedConfigurations, t.Counts.SkippedConfigurations)

	if opts.Table && len(r.Suites) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, suiteTable(r, pal))
	}

	if len(r.Failures) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, pal.paint(pal.fail, "  Failures  "))
		writeFailures(bw, r.Failures, pal)
	}
	return bw.Flush()
}

// writeFailures prints one block per failure, with a separator before the
// failures of each test.
func writeFailures(w io.Writer, failures []FailureReport, pal palette) {
	var lastSuite, lastTest string
	for i, f := range failures {
		if i == 0 || f.Suite != lastSuite || f.Test != lastTest {
			fmt.Fprintln(w, failureSeparator)
			lastSuite, lastTest = f.Suite, f.Test
		}
		fmt.Fprintf(w, "%s > %s(%s) Failed\n", f.Suite, f.Test, f.Configuration)
		fmt.Fprintf(w, "  Message:\t%s\n", pal.paint(pal.message, f.Message))
		fmt.Fprintf(w, "  Location:\t%s @%d%s\n", f.File, f.Line, phaseSuffix(f.Phase))
		fmt.Fprintln(w)
	}
}

func phaseSuffix(phase string) string {
	switch phase {
	case "Setup", "Teardown":
		return "\t[" + phase + "]"
	default:
		return ""
	}
}

// tableStyle is StyleLight with header and footer text left as written.
func tableStyle() table.Style {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	return style
}

func suiteTable(r *Report, pal palette) string {
	tw := table.NewWriter()
	tw.SetStyle(tableStyle())
	tw.AppendHeader(table.Row{
		"Suite", "Status", "Tests", "Passed", "Failed", "Configs", "Passed", "Failed", "Skipped", "Runtime",
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
		{Number: 10, Align: text.AlignRight},
	})

	for _, s := range r.Suites {
		c := s.Counts
		tw.AppendRow(table.Row{
			s.Name,
			pal.badge(s.Status),
			c.Tests, c.PassedTests, c.FailedTests,
			c.Configurations, c.PassedConfigurations, c.FailedConfigurations, c.SkippedConfigurations,
			formatMillis(c.RuntimeMS),
		})
	}

	c := r.Totals.Counts
	tw.AppendFooter(table.Row{
		"TOTAL",
		pal.badge(r.Status),
		c.Tests, c.PassedTests, c.FailedTests,
		c.Configurations, c.PassedConfigurations, c.FailedConfigurations, c.SkippedConfigurations,
		formatMillis(c.RuntimeMS),
	})
	return strings.TrimRight(tw.Render(), "\n")
}

func formatMillis(ms int64) string {
	return fmt.Sprintf("%dms", ms)
}
