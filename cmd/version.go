package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Actual version and build time can be specified in build command.
var (
	version   = "unknown"
	buildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s (built %s)\n", app, version, buildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
