package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"renalscan/internal/version"
)

// getVersion returns the version string shown by the root command.
func getVersion() string {
	return version.Version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build time of renalscan.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "renalscan version %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.BuildTime)
		},
	}
}
