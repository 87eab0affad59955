// Package segment provides candidate-region segmentation over source images.
// The segmentation stage is pluggable: the shipped Placeholder generates
// stochastic stone-like blobs standing in for a trained model, Model runs
// real inference, and Fixed replays a prepared mask for deterministic tests.
package segment

import (
	"fmt"

	"renalscan/internal/mask"
	"renalscan/internal/raster"
)

// Segmenter produces a binary mask over the source image's original spatial
// dimensions, marking candidate stone regions. Implementations must not
// retain or mutate the input image.
type Segmenter interface {
	Segment(original *raster.Image) (*mask.Mask, error)
}

// Fixed is a Segmenter that returns a prepared mask verbatim. It exists to
// drive the rest of the pipeline deterministically.
type Fixed struct {
	Mask *mask.Mask
}

// NewFixed creates a Fixed segmenter around the given mask.
func NewFixed(m *mask.Mask) *Fixed {
	return &Fixed{Mask: m}
}

// Segment returns the prepared mask. The mask dimensions must match the
// source image; a nil mask yields an all-background mask.
func (f *Fixed) Segment(original *raster.Image) (*mask.Mask, error) {
	if err := original.Validate(); err != nil {
		return nil, err
	}
	if f.Mask == nil {
		return mask.New(original.Width, original.Height)
	}
	if f.Mask.Width != original.Width || f.Mask.Height != original.Height {
		return nil, fmt.Errorf("%w: mask %dx%d does not match image %dx%d",
			raster.ErrInvalidImage, f.Mask.Width, f.Mask.Height, original.Width, original.Height)
	}
	return f.Mask, nil
}
