// Command beaconreg registers 3-D scanner reports into a single frame.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/beaconreg/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "beaconreg:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
