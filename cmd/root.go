// Package cmd implements the reil command-line tool: a cobra command
// tree over the translate/lint/xref/equiv/debug/serve operations this
// module exposes. It is a thin consumer of reil, arch, smt, translator,
// loader, reillint, debugger, and api — none of the encoding logic lives
// here.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "reil",
	Short: "REIL intermediate representation and SMT translator",
	Long: `reil lifts a textual REIL assembly program into SMT-LIBv2
assertions: translate one instruction at a time, step through a program
interactively, cross-reference its register usage, or check two REIL
sequences for semantic equivalence.`,
}

// Execute runs the root command, exiting the process with status 1 on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/reil/config.toml, or %APPDATA%\\reil\\config.toml on Windows)")

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(xrefCmd)
	rootCmd.AddCommand(equivCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
