// Command paramunit runs the bundled example suites.
package main

import (
	"os"

	"github.com/roach88/paramunit/internal/cli"
	"github.com/roach88/paramunit/internal/demo"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand(demo.Registry), os.Args[1:]))
}
