package segment

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"renalscan/internal/mask"
	"renalscan/internal/raster"
)

// PlaceholderParams configures the stochastic blob generator.
type PlaceholderParams struct {
	// DetectionRate is the probability that a mask contains any blobs at all.
	DetectionRate float64

	// MinBlobs and MaxBlobs bound the number of blobs per positive mask.
	MinBlobs int
	MaxBlobs int

	// MinRadius and MaxRadius bound the major semi-axis in pixels.
	MinRadius int
	MaxRadius int

	// MinorRatio is the minor semi-axis as a fraction of the major one.
	MinorRatio float64

	// BorderMargin keeps blob centers this many pixels away from every
	// image border so blobs never clip.
	BorderMargin int
}

// DefaultPlaceholderParams returns parameters tuned to resemble kidney
// stones on typical scan resolutions.
func DefaultPlaceholderParams() PlaceholderParams {
	return PlaceholderParams{
		DetectionRate: 0.7,
		MinBlobs:      1,
		MaxBlobs:      3,
		MinRadius:     8,
		MaxRadius:     25,
		MinorRatio:    0.8,
		BorderMargin:  50,
	}
}

// Placeholder is a stochastic Segmenter standing in for a trained model.
// It exercises the rest of the pipeline before real inference is available.
// Safe for concurrent use; the random source is guarded by a mutex.
type Placeholder struct {
	params PlaceholderParams

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPlaceholder creates a Placeholder segmenter. A nil rng gets a
// time-seeded source; tests inject a seeded one for deterministic output.
func NewPlaceholder(params PlaceholderParams, rng *rand.Rand) *Placeholder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Placeholder{params: params, rng: rng}
}

// Segment generates a mask with 1..MaxBlobs rotated elliptical blobs with
// probability DetectionRate, otherwise an all-background mask.
func (p *Placeholder) Segment(original *raster.Image) (*mask.Mask, error) {
	if err := original.Validate(); err != nil {
		return nil, err
	}
	out, err := mask.New(original.Width, original.Height)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rng.Float64() >= p.params.DetectionRate {
		return out, nil
	}

	numBlobs := p.randRange(p.params.MinBlobs, p.params.MaxBlobs)
	for i := 0; i < numBlobs; i++ {
		cx := p.randCenter(original.Width)
		cy := p.randCenter(original.Height)
		major := p.randRange(p.params.MinRadius, p.params.MaxRadius)
		minor := int(float64(major) * p.params.MinorRatio)
		angle := p.rng.Float64() * 180.0
		fillEllipse(out, cx, cy, major, minor, angle)
	}
	return out, nil
}

// randRange returns a uniform integer in [lo, hi].
func (p *Placeholder) randRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + p.rng.Intn(hi-lo+1)
}

// randCenter picks a blob center coordinate at least BorderMargin away from
// both borders. Images too small for the margin get centered blobs instead.
func (p *Placeholder) randCenter(extent int) int {
	margin := p.params.BorderMargin
	if extent <= 2*margin {
		return extent / 2
	}
	return p.randRange(margin, extent-margin)
}

// fillEllipse rasterizes a filled ellipse with the given center, semi-axes
// and rotation in degrees. Mask.Set clips out-of-range pixels.
func fillEllipse(m *mask.Mask, cx, cy, major, minor int, angleDeg float64) {
	if major <= 0 {
		major = 1
	}
	if minor <= 0 {
		minor = 1
	}
	theta := angleDeg * math.Pi / 180.0
	cos, sin := math.Cos(theta), math.Sin(theta)
	a, b := float64(major), float64(minor)

	for y := cy - major; y <= cy+major; y++ {
		for x := cx - major; x <= cx+major; x++ {
			dx := float64(x - cx)
			dy := float64(y - cy)
			// Rotate the offset into the ellipse frame.
			u := dx*cos + dy*sin
			v := -dx*sin + dy*cos
			if (u*u)/(a*a)+(v*v)/(b*b) <= 1.0 {
				m.Set(x, y, true)
			}
		}
	}
}
