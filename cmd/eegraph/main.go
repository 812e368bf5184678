// Command eegraph compiles function catalogs, encodes client values and
// runs encoding scenarios.
package main

import (
	"os"

	"github.com/roach88/eegraph/internal/cli"
)

func main() {
	// cobra already printed the error.
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
