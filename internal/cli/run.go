package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/paramunit/internal/config"
	"github.com/roach88/paramunit/internal/engine"
	"github.com/roach88/paramunit/internal/guardmem"
	"github.com/roach88/paramunit/internal/metrics"
	"github.com/roach88/paramunit/internal/report"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	*RootOptions
	Filter      string
	MetricsFile string
	Backing     string
	Color       string
	NoProgress  bool
	Table       bool
}

// runFlagKeys maps run flags to config keys.
var runFlagKeys = map[string]string{
	"filter":       "filter",
	"metrics-file": "metrics_file",
	"backing":      "allocator.backing",
	"color":        "color",
	"table":        "table",
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every registered suite",
		Long: `Run every registered suite and print a report.

Each test runs once per configuration of its parameters. The command
exits 1 when any suite had a failed test.

Examples:
  paramunit run
  paramunit run --filter 'AllAsserts/Int*'
  paramunit run --format json --metrics-file run.prom`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run tests matching Suite/Test (glob)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	cmd.Flags().StringVar(&opts.Backing, "backing", guardmem.BackingHeap, "allocator backing (heap|locked)")
	cmd.Flags().StringVar(&opts.Color, "color", config.ColorAuto, "color output (auto|always|never)")
	cmd.Flags().BoolVar(&opts.NoProgress, "no-progress", false, "do not print per-test progress")
	cmd.Flags().BoolVar(&opts.Table, "table", true, "print the per-suite table in text reports")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	cfg, err := loadConfig(cmd, opts.RootOptions, runFlagKeys)
	if err != nil {
		return err
	}
	if opts.NoProgress {
		cfg.Progress = false
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)

	reg, err := opts.source()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to register suites", err)
	}
	defer reg.Close()

	selected, err := reg.Filter(cfg.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	backing, err := guardmem.BackingByName(cfg.Allocator.Backing)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid allocator", err)
	}
	alloc := guardmem.New(guardmem.WithBacking(backing))

	runID := opts.runIDs.Generate()
	recorder := metrics.NewRecorder(runID)
	if err := recorder.TrackAllocator(alloc); err != nil {
		return WrapExitError(ExitCommandError, "failed to register allocator metrics", err)
	}

	out := cmd.OutOrStdout()
	color := cfg.UseColor(report.IsTerminal(out))

	runnerOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithAllocator(alloc),
		engine.WithRunIDGenerator(engine.NewFixedGenerator(runID)),
		engine.WithObserver(recorder),
	}
	if cfg.Progress {
		runnerOpts = append(runnerOpts, engine.WithObserver(progressObserver(cmd, cfg.Format, color)))
	}
	runnerOpts = append(runnerOpts, opts.engineOptions...)

	logger.Debug("running suites",
		"run_id", runID,
		"filter", cfg.Filter,
		"suites", len(selected.Suites()),
		"backing", backing.Name(),
	)

	sum, err := selected.Run(runnerOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	rep := report.Build(sum)
	if err := report.Write(out, rep, cfg.Format, report.TextOptions{Color: color, Table: cfg.Table}); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
		logger.Debug("metrics written", "path", cfg.MetricsFile)
	}

	if rep.Failed() {
		return NewExitError(ExitFailure, "test failures")
	}
	return nil
}

// progressObserver prints progress next to a text report on stdout, and
// on stderr when stdout carries a structured report.
func progressObserver(cmd *cobra.Command, format string, color bool) engine.Observer {
	var w io.Writer = cmd.OutOrStdout()
	if format != report.FormatText {
		w = cmd.ErrOrStderr()
		color = color && report.IsTerminal(w)
	}
	return report.NewProgress(w, report.WithColor(color))
}
