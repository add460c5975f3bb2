package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/paramunit/internal/config"
	"github.com/roach88/paramunit/internal/engine"
	"github.com/roach88/paramunit/internal/report"
)

// RegistrySource builds the registry a command works on. It is called at
// most once per command invocation.
type RegistrySource func() (*engine.Registry, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml"
	ConfigPath string

	source        RegistrySource
	runIDs        engine.RunIDGenerator
	engineOptions []engine.Option
}

// Option configures the command tree.
type Option func(*RootOptions)

// WithRunIDGenerator overrides the run ID source (for testing).
func WithRunIDGenerator(g engine.RunIDGenerator) Option {
	return func(o *RootOptions) { o.runIDs = g }
}

// WithEngineOptions appends runner options after the ones derived from
// config, e.g. a deterministic clock in tests.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *RootOptions) { o.engineOptions = append(o.engineOptions, opts...) }
}

// NewRootCommand creates the root command for the paramunit CLI.
func NewRootCommand(source RegistrySource, options ...Option) *cobra.Command {
	opts := &RootOptions{
		source: source,
		runIDs: engine.UUIDv7Generator{},
	}
	for _, o := range options {
		o(opts)
	}

	cmd := &cobra.Command{
		Use:   "paramunit",
		Short: "paramunit - parameterized unit tests",
		Long: `Run suites of parameterized tests.

Every test runs once per combination of its parameters. Failures are
reported with the configuration that triggered them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") && !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, report.Formats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", report.FormatText, "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(report.Formats, format)
}

// loadConfig layers the config file, environment and the flags that were
// explicitly set. flagKeys maps flag names to config keys.
func loadConfig(cmd *cobra.Command, opts *RootOptions, flagKeys map[string]string) (*config.Config, error) {
	overrides := map[string]any{}
	if cmd.Flags().Changed("format") {
		overrides["format"] = opts.Format
	}
	if opts.Verbose {
		overrides["log_level"] = "debug"
	}
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if f.Value.Type() == "bool" {
			overrides[key] = f.Value.String() == "true"
		} else {
			overrides[key] = f.Value.String()
		}
	}

	cfg, err := config.Load(opts.ConfigPath, overrides)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

// newLogger builds the stderr logger at the configured level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// Execute runs cmd with args and returns the process exit code. Command
// errors are printed to the command's error writer; test failures are
// already described by the report.
func Execute(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	code := GetExitCode(err)
	if code != ExitFailure {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return code
}
