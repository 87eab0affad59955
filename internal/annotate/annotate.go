// Package annotate renders analysis results back onto the source image:
// semi-transparent region fills, boundary outlines, and a pointer with a
// text label on the primary region.
package annotate

import (
	"fmt"
	"image"
	"image/color"

	"renalscan/internal/analyze"
	"renalscan/internal/mask"
	"renalscan/internal/raster"
	"renalscan/pkg/geometry"
)

// Params configures the overlay rendering.
type Params struct {
	Highlight   color.RGBA // Fill color composited over region interiors
	Outline     color.RGBA // Boundary stroke color
	Marker      color.RGBA // Arrow and label color
	BlendFactor float64    // Highlight share of the fill blend (0..1)
	StrokeWidth int        // Boundary stroke width in pixels
	Label       string     // Text drawn near the pointer tail
	ArrowOffset int        // Diagonal offset of the pointer tail from the centroid
	LabelOffset int        // Diagonal offset of the label from the centroid
}

// DefaultParams returns the rendering defaults: a warm red highlight at
// 30 % opacity, red outline, and a green pointer with a "STONE" label.
func DefaultParams() Params {
	return Params{
		Highlight:   color.RGBA{R: 255, G: 100, B: 100, A: 255},
		Outline:     color.RGBA{R: 255, A: 255},
		Marker:      color.RGBA{G: 255, A: 255},
		BlendFactor: 0.3,
		StrokeWidth: 2,
		Label:       "STONE",
		ArrowOffset: 30,
		LabelOffset: 35,
	}
}

// Annotator draws detection overlays. Stateless and safe for concurrent use.
type Annotator struct {
	params Params
}

// New creates an Annotator.
func New(params Params) *Annotator {
	return &Annotator{params: params}
}

// Annotate returns a new 3-channel image with every external mask region
// highlighted. The input image is never mutated. Without a detection the
// result is the channel-converted original, pixel for pixel.
func (a *Annotator) Annotate(original *raster.Image, m *mask.Mask, res analyze.Result) (*raster.Image, error) {
	if err := original.Validate(); err != nil {
		return nil, err
	}
	out := original.RGB()
	if !res.StoneDetected {
		return out, nil
	}
	if m == nil || m.Width != original.Width || m.Height != original.Height {
		return nil, fmt.Errorf("%w: mask does not match image dimensions", raster.ErrInvalidImage)
	}

	// The region set is derived from the mask, not stored on the result.
	regions, labels := m.Components()
	for _, region := range regions {
		a.fillRegion(out, labels, region.Label)
		a.strokeContour(out, region.Contour)
		if a.isPrimary(region, res) {
			a.drawPointer(out, *res.Center)
		}
	}
	return out, nil
}

// isPrimary reports whether this region is the one the analysis singled
// out, by matching its centroid against the reported center.
func (a *Annotator) isPrimary(region mask.Region, res analyze.Result) bool {
	if res.Center == nil {
		return false
	}
	c, ok := geometry.ContourCentroid(region.Contour)
	if !ok {
		return false
	}
	return geometry.PointInt{X: int(c.X), Y: int(c.Y)} == *res.Center
}

// fillRegion alpha-composites the highlight color over every pixel of the
// labeled component.
func (a *Annotator) fillRegion(img *raster.Image, labels []int32, label int32) {
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if labels[y*img.Width+x] == label {
				blendPixel(img, x, y, a.params.Highlight, a.params.BlendFactor)
			}
		}
	}
}

// strokeContour draws the boundary outline at the configured stroke width.
func (a *Annotator) strokeContour(img *raster.Image, contour []geometry.PointInt) {
	r := a.params.StrokeWidth / 2
	if r < 0 {
		r = 0
	}
	for _, p := range contour {
		drawDisc(img, p.X, p.Y, r, a.params.Outline)
	}
}

// drawPointer draws a short diagonal arrow toward the centroid and the
// label near the arrow's tail.
func (a *Annotator) drawPointer(img *raster.Image, center geometry.PointInt) {
	tail := image.Pt(center.X+a.params.ArrowOffset, center.Y-a.params.ArrowOffset)
	tip := image.Pt(center.X, center.Y)
	drawArrow(img, tail, tip, a.params.StrokeWidth, a.params.Marker)
	drawLabel(img, a.params.Label,
		image.Pt(center.X+a.params.LabelOffset, center.Y-a.params.LabelOffset),
		a.params.Marker)
}
