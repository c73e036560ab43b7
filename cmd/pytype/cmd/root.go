// Package cmd implements the pytype CLI: a cobra command tree laid out one
// file per subcommand, with a shared root.go.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use: "pytype",
	Short: "A static type analyzer for a gradually-typed scripting language",
	Long: `pytype is a static analyzer that infers and checks types over a parse
tree, producing diagnostics and type bindings sufficient to drive hover,
go-to-definition, completion, and incompatibility warnings.

The core is the type system and inference engine: the type algebra, the
per-call generic solver, the expression evaluator, and the iterative,
multi-pass module analysis driver. Parsing is out of this repository's
scope; the check command demonstrates the core against the same synthetic
parse trees the test suite builds.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built: %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to pytypeconfig.json (default: <project>/pytypeconfig.json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(2)
}
