// Package config provides configuration loading and management for renalscan.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Detection parameters
	Detection struct {
		// DetectionRate is the placeholder segmenter's probability of
		// emitting any blobs at all.
		DetectionRate float64 `yaml:"detectionRate"`

		// MinBlobs and MaxBlobs bound the blob count per positive mask.
		MinBlobs int `yaml:"minBlobs"`
		MaxBlobs int `yaml:"maxBlobs"`

		// MinRadius and MaxRadius bound the blob major semi-axis in pixels.
		MinRadius int `yaml:"minRadius"`
		MaxRadius int `yaml:"maxRadius"`

		// BorderMargin keeps blob centers away from image borders.
		BorderMargin int `yaml:"borderMargin"`

		// ConfidenceMin and ConfidenceMax bound the reported confidence.
		ConfidenceMin float64 `yaml:"confidenceMin"`
		ConfidenceMax float64 `yaml:"confidenceMax"`

		// ModelPath points at an ONNX segmentation model. When set, the
		// model segmenter replaces the placeholder (requires a gocv build).
		ModelPath string `yaml:"modelPath"`
	} `yaml:"detection"`

	// Annotation parameters
	Annotation struct {
		// BlendFactor is the highlight share of the fill blend.
		BlendFactor float64 `yaml:"blendFactor"`

		// StrokeWidth is the boundary outline width in pixels.
		StrokeWidth int `yaml:"strokeWidth"`

		// Label is the text drawn next to the primary region pointer.
		Label string `yaml:"label"`
	} `yaml:"annotation"`

	// Server parameters
	Server struct {
		// Addr is the HTTP listen address.
		Addr string `yaml:"addr"`

		// MaxUploadBytes caps the accepted upload size.
		MaxUploadBytes int64 `yaml:"maxUploadBytes"`
	} `yaml:"server"`

	// Batch parameters
	Batch struct {
		// Concurrency is the number of images processed at once.
		Concurrency int `yaml:"concurrency"`
	} `yaml:"batch"`
}

// Default returns a configuration with default values.
func Default() *Config {
	cfg := &Config{}

	cfg.Detection.DetectionRate = 0.7
	cfg.Detection.MinBlobs = 1
	cfg.Detection.MaxBlobs = 3
	cfg.Detection.MinRadius = 8
	cfg.Detection.MaxRadius = 25
	cfg.Detection.BorderMargin = 50
	cfg.Detection.ConfidenceMin = 0.85
	cfg.Detection.ConfidenceMax = 0.98

	cfg.Annotation.BlendFactor = 0.3
	cfg.Annotation.StrokeWidth = 2
	cfg.Annotation.Label = "STONE"

	cfg.Server.Addr = ":5000"
	cfg.Server.MaxUploadBytes = 16 << 20

	cfg.Batch.Concurrency = min(runtime.NumCPU(), 8)

	return cfg
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "renalscan", "config.yaml")
}

// Load loads configuration from a YAML file. An empty path means the
// default location; a missing file yields the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating the directory if
// needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
