package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build information, injected at build time via -ldflags
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "none"
)

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "foldersearch %s\n", versionString())
		},
	}
}
