package detect

import (
	"image"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renalscan/internal/analyze"
	"renalscan/internal/mask"
	"renalscan/internal/raster"
	"renalscan/internal/segment"
)

func uniformGray(t *testing.T, width, height int, value uint8) *raster.Image {
	t.Helper()
	img, err := raster.New(width, height, 1)
	require.NoError(t, err)
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

func circleMask(t *testing.T, width, height, cx, cy, radius int) *mask.Mask {
	t.Helper()
	m, err := mask.New(width, height)
	require.NoError(t, err)
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

func TestPreprocess(t *testing.T) {
	img := uniformGray(t, 300, 200, 128)

	normalized, original, err := Preprocess(img)
	require.NoError(t, err)

	assert.Same(t, img, original)
	assert.Equal(t, AnalysisSize, normalized.Width)
	assert.Equal(t, AnalysisSize, normalized.Height)
	for _, v := range normalized.Pix {
		assert.InDelta(t, 128.0/255.0, v, 1e-9)
	}
}

func TestPreprocess_InvalidImage(t *testing.T) {
	_, _, err := Preprocess(&raster.Image{Width: 0, Height: 10, Channels: 1})
	assert.ErrorIs(t, err, raster.ErrInvalidImage)
}

func TestRun_WithDetection(t *testing.T) {
	img := uniformGray(t, 300, 300, 90)
	m := circleMask(t, 300, 300, 150, 100, 20)

	d := New(segment.NewFixed(m), analyze.New(rand.New(rand.NewSource(5))), nil)
	outcome, err := d.Run(img)
	require.NoError(t, err)

	res := outcome.Analysis
	assert.True(t, res.StoneDetected)
	assert.InDelta(t, 1257, res.SizePixels, 80) // about pi * 20^2
	assert.Equal(t, analyze.LocationMidKidney, res.Location)
	require.NotNil(t, res.Center)
	assert.InDelta(t, 150, res.Center.X, 1)
	assert.InDelta(t, 100, res.Center.Y, 1)
	assert.GreaterOrEqual(t, res.Confidence, 0.85)
	assert.LessOrEqual(t, res.Confidence, 0.98)

	require.NotNil(t, outcome.Annotated)
	assert.Equal(t, 3, outcome.Annotated.Channels)
	assert.Equal(t, 300, outcome.Annotated.Width)

	assert.Contains(t, outcome.Report, "A kidney stone has been detected")
	assert.Contains(t, outcome.Report, "Mid-Kidney")
}

func TestRun_WithoutDetection(t *testing.T) {
	img := uniformGray(t, 128, 128, 60)

	d := New(segment.NewFixed(nil), analyze.New(rand.New(rand.NewSource(5))), nil)
	outcome, err := d.Run(img)
	require.NoError(t, err)

	assert.False(t, outcome.Analysis.StoneDetected)
	assert.Equal(t, img.RGB().Pix, outcome.Annotated.Pix)
	assert.Contains(t, outcome.Report, "No kidney stones were detected")
}

func TestRun_InvalidImage(t *testing.T) {
	d := New(segment.NewFixed(nil), nil, nil)
	_, err := d.Run(&raster.Image{Width: 10, Height: 10, Channels: 1})
	assert.ErrorIs(t, err, raster.ErrInvalidImage)
}

func writeTestPNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 70
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestBatchRunner(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTestPNG(t, dir, "a.png", 64, 64),
		writeTestPNG(t, dir, "b.png", 64, 64),
		filepath.Join(dir, "missing.png"),
		writeTestPNG(t, dir, "c.png", 64, 64),
	}

	d := New(segment.NewFixed(nil), analyze.New(rand.New(rand.NewSource(5))), nil)
	runner := NewBatchRunner(d, WithConcurrency(2))

	items, err := runner.Run(t.Context(), paths)
	require.NoError(t, err)
	require.Len(t, items, len(paths))

	for i, item := range items {
		assert.Equal(t, paths[i], item.Path)
	}
	assert.NoError(t, items[0].Err)
	assert.NoError(t, items[1].Err)
	assert.Error(t, items[2].Err)
	assert.Nil(t, items[2].Outcome)
	assert.NoError(t, items[3].Err)
	require.NotNil(t, items[3].Outcome)
	assert.False(t, items[3].Outcome.Analysis.StoneDetected)
}
