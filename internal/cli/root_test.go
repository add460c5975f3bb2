package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paramunit/internal/engine"
	"github.com/roach88/paramunit/internal/param"
	"github.com/roach88/paramunit/internal/testutil"
)

// sampleRegistry holds one passing and one failing suite.
func sampleRegistry() (*engine.Registry, error) {
	reg := engine.NewRegistry()

	math := engine.NewSuite("Math").
		Test("Add", func(t *engine.T) {
			t.IntEq(t.Int("a")+1, 1+t.Int("a"))
		}, param.Range("a", 1, 3)).
		Test("Words", func(t *engine.T) {
			t.StringNotEq("", t.Str("w"))
		}, param.StringEnum("w", "x", "y"))
	if err := reg.Add(math); err != nil {
		return nil, err
	}

	broken := engine.NewSuite("Broken").
		Test("Odd", func(t *engine.T) {
			t.IntEq(0, t.Int("n")%2)
		}, param.Range("n", 1, 2))
	if err := reg.Add(broken); err != nil {
		return nil, err
	}
	return reg, nil
}

func passingRegistry() (*engine.Registry, error) {
	reg, err := sampleRegistry()
	if err != nil {
		return nil, err
	}
	return reg.Filter("Math")
}

// newTestCommand builds a root command with deterministic run IDs and
// timing, writing to fresh buffers.
func newTestCommand(source RegistrySource) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := NewRootCommand(source,
		WithRunIDGenerator(testutil.NewFixedRunID("run-cli")),
		WithEngineOptions(engine.WithClock(testutil.NewStepClock(time.Millisecond))),
	)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd, stdout, stderr
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(sampleRegistry)
	require.NotNil(t, cmd)
	assert.Equal(t, "paramunit", cmd.Use)
	assert.Contains(t, cmd.Long, "parameters")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(sampleRegistry)

	for _, cmdName := range []string{"run", "list"} {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(sampleRegistry)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.True(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd, stdout, stderr := newTestCommand(sampleRegistry)

	code := Execute(cmd, []string{"run", "--format", "xml"})
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), `invalid format "xml"`)
}

func TestExecuteUnknownFlag(t *testing.T) {
	cmd, _, stderr := newTestCommand(sampleRegistry)

	code := Execute(cmd, []string{"run", "--nope"})
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), "unknown flag")
}

func TestExecuteRegistrationError(t *testing.T) {
	failing := func() (*engine.Registry, error) {
		return nil, errors.New("duplicate suite")
	}
	cmd, _, stderr := newTestCommand(failing)

	code := Execute(cmd, []string{"run"})
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), "failed to register suites: duplicate suite")
}

func TestCommandHelp(t *testing.T) {
	cmd, stdout, _ := newTestCommand(sampleRegistry)

	code := Execute(cmd, []string{"--help"})
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout.String(), "run")
	assert.Contains(t, stdout.String(), "list")
}
