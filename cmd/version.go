package cmd

import (
	"fmt"

	"github.com/exograph/exoschema/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("exo %s %s (commit %s, built %s)\n",
			version.Version(), version.Platform(), version.GetGitCommit(), version.GetBuildDate())
	},
}
