// Package analyze extracts structured findings from segmentation masks:
// connected regions, primary region size and centroid, anatomical zoning
// and a confidence score.
package analyze

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"renalscan/internal/mask"
	"renalscan/internal/raster"
	"renalscan/pkg/geometry"
)

// Analyzer turns a binary mask into a Result. Safe for concurrent use.
type Analyzer struct {
	// ConfidenceMin and ConfidenceMax bound the reported confidence while
	// the placeholder segmenter stands in for a real model. A trained
	// model's predicted probability replaces this range.
	ConfidenceMin float64
	ConfidenceMax float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an Analyzer. A nil rng gets a time-seeded source; tests
// inject a seeded one.
func New(rng *rand.Rand) *Analyzer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Analyzer{
		ConfidenceMin: 0.85,
		ConfidenceMax: 0.98,
		rng:           rng,
	}
}

// Analyze extracts all external regions from the mask and reports on the
// one with the largest enclosed area. Ties go to the first-extracted
// region; extraction follows raster scan order, so equal-area ties are an
// accepted non-determinism of the mask layout rather than of this code.
func (a *Analyzer) Analyze(m *mask.Mask) (Result, error) {
	if m == nil || m.Width <= 0 || m.Height <= 0 {
		return Result{}, fmt.Errorf("%w: nil or empty mask", raster.ErrInvalidImage)
	}

	regions := m.Regions()
	if len(regions) == 0 {
		return NotDetected(), nil
	}

	primary := regions[0]
	primaryArea := geometry.ContourArea(primary.Contour)
	for _, r := range regions[1:] {
		if area := geometry.ContourArea(r.Contour); area > primaryArea {
			primary = r
			primaryArea = area
		}
	}

	// Centroid from the contour's spatial moments; degenerate regions
	// (zero zeroth moment) fall back to the origin instead of dividing
	// by zero.
	centroid, ok := geometry.ContourCentroid(primary.Contour)
	if !ok {
		centroid = geometry.Point2D{}
	}
	center := geometry.PointInt{X: int(centroid.X), Y: int(centroid.Y)}

	return Result{
		StoneDetected: true,
		SizePixels:    int(primaryArea),
		Location:      classifyLocation(centroid.Y, m.Height),
		Confidence:    a.confidence(),
		Center:        &center,
		RegionCount:   len(regions),
		Circularity:   boundaryCircularity(primary.Contour, centroid),
	}, nil
}

// classifyLocation splits the mask height into three equal horizontal
// bands: cy < h/3 is the upper pole, h/3 <= cy < 2h/3 mid-kidney, the
// rest the lower pole.
func classifyLocation(cy float64, height int) Location {
	h := float64(height)
	switch {
	case cy < h/3:
		return LocationUpperPole
	case cy < 2*h/3:
		return LocationMidKidney
	default:
		return LocationLowerPole
	}
}

// confidence draws a uniform value in [ConfidenceMin, ConfidenceMax].
func (a *Analyzer) confidence() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ConfidenceMin + a.rng.Float64()*(a.ConfidenceMax-a.ConfidenceMin)
}

// boundaryCircularity scores how consistently distant the contour points
// are from the centroid, as 1 minus the coefficient of variation of the
// radii. A perfect circle scores close to 1.0.
func boundaryCircularity(contour []geometry.PointInt, centroid geometry.Point2D) float64 {
	if len(contour) < 3 {
		return 0
	}
	radii := make([]float64, len(contour))
	for i, p := range contour {
		radii[i] = centroid.Distance(p.ToFloat())
	}
	mean := stat.Mean(radii, nil)
	if mean <= 0 {
		return 0
	}
	cv := stat.StdDev(radii, nil) / mean
	if cv > 1 {
		cv = 1
	}
	return 1 - cv
}
