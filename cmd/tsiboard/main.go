// Package main implements tsiboard, a subcommand CLI for validating and
// running a single board DSL file outside of the interactive tsictl shell
// or the tsiserver control plane (§A.5).
package main

import (
	"fmt"
	"os"

	"github.com/cuwacunu/tsiemene/internal/version"
	"github.com/spf13/cobra"
)

var cmdRoot = &cobra.Command{
	Use:   "tsiboard",
	Short: "validate and run tsiemene board DSL files",
	Long:  `tsiboard is a small CLI wrapped around the board decoder, validator, and wave scheduler.`,
}

func main() {
	cmdRoot.PersistentFlags().BoolVar(&showVersion, "version", false, "show version and exit")
	cmdRoot.AddCommand(cmdValidate)
	cmdRoot.AddCommand(cmdRun)

	cobra.OnInitialize(func() {
		if showVersion {
			fmt.Printf("tsiboard (tsiemene engine v%s)\n", version.Engine)
			os.Exit(0)
		}
	})

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

var showVersion bool
