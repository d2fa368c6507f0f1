// Command energyflow is the command-line interface for the facility
// energy-demand and emissions solver.
package main

import (
	"fmt"
	"os"

	"github.com/oilfield/energyflow/internal/cli"
)

func main() {
	cfg := cli.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.Code(err))
	}
}
