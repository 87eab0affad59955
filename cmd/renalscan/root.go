package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for renalscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renalscan",
		Short: "Kidney stone detection over medical images",
		Long: `Renalscan runs a detection pipeline over uploaded medical images:
segmentation, region analysis (size, centroid, anatomical zone), visual
annotation and a narrative clinical summary.

The shipped segmenter is a stochastic placeholder standing in for a trained
model; point detection.modelPath at an ONNX network (gocv build) to swap in
real inference without changing anything else.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: $XDG_CONFIG_HOME/renalscan/config.yaml)")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
