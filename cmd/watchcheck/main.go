//go:build unix

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:     "watchcheck",
		Short:   "Conformance test harness for filesystem watchers",
		Version: version + " (" + commit + ")",
	}

	root.AddCommand(newCheckCmd())

	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
