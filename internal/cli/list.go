package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/roach88/paramunit/internal/report"
)

// ListedSuite describes a registered suite for the list command.
type ListedSuite struct {
	Name  string       `json:"name" yaml:"name"`
	Tests []ListedTest `json:"tests" yaml:"tests"`
}

// ListedTest describes a registered test for the list command.
type ListedTest struct {
	Name           string   `json:"name" yaml:"name"`
	Parameters     []string `json:"parameters" yaml:"parameters"`
	Configurations int64    `json:"configurations" yaml:"configurations"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered suites and tests",
		Long: `List every registered test with its parameters and the number of
configurations it will run. Nothing is executed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, rootOpts, filter)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "only list tests matching Suite/Test (glob)")
	return cmd
}

func runList(cmd *cobra.Command, opts *RootOptions, filter string) error {
	cfg, err := loadConfig(cmd, opts, map[string]string{"filter": "filter"})
	if err != nil {
		return err
	}

	reg, err := opts.source()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to register suites", err)
	}
	defer reg.Close()

	selected, err := reg.Filter(cfg.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	var suites []ListedSuite
	for _, s := range selected.Suites() {
		ls := ListedSuite{Name: s.Name()}
		for _, t := range s.Tests() {
			ls.Tests = append(ls.Tests, ListedTest{
				Name:           t.Name(),
				Parameters:     report.ParameterNames(t),
				Configurations: t.Params().Count(),
			})
		}
		suites = append(suites, ls)
	}
	if suites == nil {
		suites = []ListedSuite{}
	}

	f := &OutputFormatter{Format: cfg.Format, Writer: cmd.OutOrStdout()}
	if cfg.Format != report.FormatText {
		return f.Success(suites)
	}
	return f.Success(listTable(suites))
}

func listTable(suites []ListedSuite) string {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault

	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"Suite", "Test", "Parameters", "Configurations"})

	var total int64
	for _, s := range suites {
		for _, t := range s.Tests {
			params := strings.Join(t.Parameters, ", ")
			if params == "" {
				params = "-"
			}
			tw.AppendRow(table.Row{s.Name, t.Name, params, t.Configurations})
			total += t.Configurations
		}
	}
	tw.AppendFooter(table.Row{"", "", "TOTAL", total})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}
