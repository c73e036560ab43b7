package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/kbridge/pytype/cmd/pytype/cmd"
)

// TestMain lets testscript re-exec this test binary as the "pytype" command
// for each script line that invokes it, the same way a compiled CLI
// integration suite drives the real binary without a separate `go build`
// step.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"pytype": runPytype,
	}))
}

// runPytype is Execute() adapted to testscript's func() int convention;
// checkCmd still calls os.Exit directly for its own scenario-driven exit
// code (§6), so only the non-check subcommands return through here.
func runPytype() int {
	if err := cmd.Execute(); err != nil {
		return 2
	}
	return 0
}

func TestCLIScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
