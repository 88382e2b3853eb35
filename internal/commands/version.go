package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "opskit %s (commit: %s, built: %s)\n", orDefault(version, "dev"), orDefault(commit, "none"), orDefault(date, "unknown"))
	},
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
