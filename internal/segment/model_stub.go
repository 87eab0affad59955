//go:build !gocv
// +build !gocv

package segment

import (
	"errors"

	"renalscan/internal/mask"
	"renalscan/internal/raster"
)

// Model is a stub used when the binary is built without the gocv tag.
// Real inference requires OpenCV; the stub keeps the rest of the pipeline
// buildable everywhere.
type Model struct{}

// NewModel returns an error when built without the gocv tag.
func NewModel(modelPath string) (*Model, error) {
	_ = modelPath
	return nil, errors.New("segmentation model requires a build with the gocv tag")
}

// Close is a no-op on the stub.
func (s *Model) Close() error {
	return nil
}

// Segment always fails on the stub.
func (s *Model) Segment(original *raster.Image) (*mask.Mask, error) {
	_ = original
	return nil, errors.New("segmentation model requires a build with the gocv tag")
}
