// ABOUTME: CLI command that prints the workoutlog version.
// ABOUTME: The version is set at build time with -ldflags.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "workoutlog %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
