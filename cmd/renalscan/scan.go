package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"renalscan/internal/analyze"
	"renalscan/internal/config"
	"renalscan/internal/detect"
	"renalscan/internal/meta"
	"renalscan/internal/raster"
	"renalscan/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [image]",
		Short: "Analyze a single medical image for kidney stones",
		Long: `Scan runs the detection pipeline over one image file (JPG, PNG or TIFF)
and writes the annotated image next to it.

Examples:
  # Analyze an image; writes <name>_annotated.png
  renalscan scan kidney.png

  # Reproducible run with an explicit seed and a markdown report
  renalscan scan --seed 42 --report report.md kidney.png

  # Print the structured analysis as JSON
  renalscan scan --json kidney.png`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	cmd.Flags().Int64P("seed", "s", 0,
		"Random seed for reproducible runs (0 = time-seeded)")
	cmd.Flags().StringP("out", "o", "",
		"Annotated image output path (default: <input>_annotated.png)")
	cmd.Flags().StringP("report", "r", "",
		"Write a markdown report to this path")
	cmd.Flags().BoolP("json", "j", false,
		"Print the structured analysis as JSON instead of the narrative")

	return cmd
}

// scanOutput is the JSON shape printed with --json.
type scanOutput struct {
	analyze.Result
	Report    string     `json:"report"`
	Annotated string     `json:"annotated_image"`
	Metadata  []meta.Tag `json:"metadata,omitempty"`
}

func runScanCmd(cmd *cobra.Command, args []string) error {
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

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	img, err := raster.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	outcome, err := detector.Run(img)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + "_annotated.png"
	}
	if err := writePNG(outPath, outcome); err != nil {
		return err
	}
	slog.Info("annotated image written", "path", outPath)

	tags := meta.Extract(data)
	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		if err := writeMarkdownReport(reportPath, filepath.Base(path), outcome, tags); err != nil {
			return err
		}
		slog.Info("report written", "path", reportPath)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(scanOutput{
			Result:    outcome.Analysis,
			Report:    outcome.Report,
			Annotated: outPath,
			Metadata:  tags,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), outcome.Report)
	return nil
}

// writePNG encodes the annotated image to a file.
func writePNG(path string, outcome *detect.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, outcome.Annotated.ToImage()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// writeMarkdownReport writes the markdown rendition of one outcome.
func writeMarkdownReport(path, source string, outcome *detect.Outcome, tags []meta.Tag) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return report.NewMarkdownWriter(f).Write(source, outcome.Analysis, outcome.Report, tags)
}

// loadConfig loads the configuration named by the --config flag, falling
// back to the default location and defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// setupLogging installs the default slog handler honoring --verbose.
func setupLogging(cmd *cobra.Command) {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
