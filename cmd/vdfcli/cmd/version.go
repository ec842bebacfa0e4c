package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of vdfcli",
	Run: func(cmd *cobra.Command, args []string) {
		commit := Commit
		if commit == "" {
			commit = "unknown"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "vdfcli %s (%s)\n", Version, commit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
