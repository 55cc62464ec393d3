// Package cmd implements the composectl CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "composectl",
	Short: "Inspect and replay compose runtime behavior",
	Long: `composectl drives the compose runtime from the command line.

The replay command feeds a YAML scenario of successive child trees through
the reconciler and prints the structural edit script each step produced,
followed by the final retained tree.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
