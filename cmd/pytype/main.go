// Command pytype runs the static type analyzer's CLI front-end.
package main

import (
	"fmt"
	"os"

	"github.com/kbridge/pytype/cmd/pytype/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
