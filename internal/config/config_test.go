package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.7, cfg.Detection.DetectionRate)
	assert.Equal(t, 1, cfg.Detection.MinBlobs)
	assert.Equal(t, 3, cfg.Detection.MaxBlobs)
	assert.Equal(t, 8, cfg.Detection.MinRadius)
	assert.Equal(t, 25, cfg.Detection.MaxRadius)
	assert.Equal(t, 50, cfg.Detection.BorderMargin)
	assert.Equal(t, 0.85, cfg.Detection.ConfidenceMin)
	assert.Equal(t, 0.98, cfg.Detection.ConfidenceMax)
	assert.Empty(t, cfg.Detection.ModelPath)

	assert.Equal(t, 0.3, cfg.Annotation.BlendFactor)
	assert.Equal(t, 2, cfg.Annotation.StrokeWidth)
	assert.Equal(t, "STONE", cfg.Annotation.Label)

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, int64(16<<20), cfg.Server.MaxUploadBytes)
	assert.Positive(t, cfg.Batch.Concurrency)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("detection:\n  detectionRate: 1.0\n  maxRadius: 40\nserver:\n  addr: \":8080\"\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1.0, cfg.Detection.DetectionRate)
	assert.Equal(t, 40, cfg.Detection.MaxRadius)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	// Untouched fields keep their defaults.
	assert.Equal(t, 8, cfg.Detection.MinRadius)
	assert.Equal(t, "STONE", cfg.Annotation.Label)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detection: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := Default()
	cfg.Detection.ModelPath = "/models/seg.onnx"
	cfg.Annotation.Label = "CALCULUS"
	cfg.Batch.Concurrency = 2

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
