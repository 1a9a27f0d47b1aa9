package main

import (
	"os"

	"github.com/scrub-sh/scrub/cmd"
)

// Entrypoint for the scrub binary. All of the work happens behind the cobra
// command in cmd; a usage or flag parsing failure exits 1, runtime failures
// exit 2 from within the command, success exits 0.
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
