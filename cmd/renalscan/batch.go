package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"renalscan/internal/detect"
)

// imageExtensions are the file types picked up from batch directories.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
}

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [directory]",
		Short: "Analyze every image in a directory concurrently",
		Long: `Batch runs the detection pipeline over every image file in a directory.
Images are processed concurrently; each gets an annotated PNG in the output
directory. A failed image is reported and does not abort the rest.

Examples:
  # Analyze a directory of scans into ./annotated
  renalscan batch ./scans

  # Limit concurrency and choose the output directory
  renalscan batch --concurrency 2 --out-dir results ./scans`,
		Args: cobra.ExactArgs(1),
		RunE: runBatchCmd,
	}

	cmd.Flags().IntP("concurrency", "n", 0,
		"Number of images processed at once (default from config)")
	cmd.Flags().StringP("out-dir", "o", "annotated",
		"Directory for annotated images")
	cmd.Flags().Int64P("seed", "s", 0,
		"Random seed for reproducible runs (0 = time-seeded)")

	return cmd
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	seed, _ := cmd.Flags().GetInt64("seed")

	detector, closer, err := detect.FromConfig(cfg, seed)
	if err != nil {
		return err
	}
	defer closer() //nolint:errcheck

	paths, err := collectImages(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no image files found in %s", args[0])
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency <= 0 {
		concurrency = cfg.Batch.Concurrency
	}

	runner := detect.NewBatchRunner(detector,
		detect.WithConcurrency(concurrency),
		detect.WithLogger(slog.Default()))

	items, err := runner.Run(cmd.Context(), paths)
	if err != nil {
		return err
	}

	detected, failed := 0, 0
	for _, item := range items {
		if item.Err != nil {
			failed++
			continue
		}
		if item.Outcome.Analysis.StoneDetected {
			detected++
		}
		name := filepath.Base(item.Path)
		outPath := filepath.Join(outDir,
			strings.TrimSuffix(name, filepath.Ext(name))+"_annotated.png")
		if err := writePNG(outPath, item.Outcome); err != nil {
			slog.Warn("failed to write annotated image", "path", outPath, "error", err)
			failed++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "analyzed %d images: %d with findings, %d failed\n",
		len(items), detected, failed)
	return nil
}

// collectImages lists the image files directly inside dir, sorted by name.
func collectImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
