// Package paramunit is a parameterized unit-testing harness.
//
// Register suites of tests, declare the parameters each test takes, and
// hand the registry to Main from a program's main function:
//
//	func main() {
//		reg := paramunit.NewRegistry()
//		reg.MustAdd(paramunit.NewSuite("Math").
//			Test("Abs", func(t *paramunit.T) {
//				t.Assert(abs(t.Int("n")) >= 0)
//			}, paramunit.Range("n", -5, 5)))
//		os.Exit(paramunit.Main(reg))
//	}
//
// Every test runs once per combination of its parameter values. The
// returned code is 0 when every suite passed, 1 when any test failed and
// 2 on a command or registration error.
package paramunit

import (
	"io"
	"os"

	"github.com/roach88/paramunit/internal/cli"
	"github.com/roach88/paramunit/internal/engine"
	"github.com/roach88/paramunit/internal/param"
)

type (
	Registry = engine.Registry
	Suite    = engine.Suite
	Test     = engine.Test
	T        = engine.T
	Body     = engine.Body
	Decl     = param.Decl
)

var (
	NewRegistry = engine.NewRegistry
	NewSuite    = engine.NewSuite

	Enum          = param.Enum
	UnsignedEnum  = param.UnsignedEnum
	StringEnum    = param.StringEnum
	Range         = param.Range
	UnsignedRange = param.UnsignedRange
	IntRow        = param.IntRow
	UintRow       = param.UintRow
	StringRow     = param.StringRow
)

// Main runs the command line against reg using the process arguments and
// returns the exit code.
func Main(reg *Registry) int {
	return Exec(reg, os.Args[1:], os.Stdout, os.Stderr)
}

// Exec runs the command line with explicit arguments and writers.
func Exec(reg *Registry, args []string, stdout, stderr io.Writer) int {
	cmd := cli.NewRootCommand(func() (*engine.Registry, error) { return reg, nil })
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cli.Execute(cmd, args)
}
