package analyze

import (
	"renalscan/pkg/geometry"
)

// Location is the anatomical zone a detection falls into, derived from the
// vertical position of the primary region's centroid.
type Location string

const (
	LocationUpperPole Location = "Upper Pole"
	LocationMidKidney Location = "Mid-Kidney"
	LocationLowerPole Location = "Lower Pole"
	LocationNone      Location = "None"
)

// Result holds the structured outcome of analyzing a segmentation mask.
// When StoneDetected is false every other field holds its zero value and
// Center is absent.
type Result struct {
	StoneDetected bool     `json:"stone_detected"`
	SizePixels    int      `json:"size_pixels"`
	Location      Location `json:"location"`
	Confidence    float64  `json:"confidence"`

	// Center is the primary region's centroid, present iff a stone was
	// detected.
	Center *geometry.PointInt `json:"center,omitempty"`

	// RegionCount and Circularity are diagnostics carried alongside the
	// core fields: how many candidate regions the mask held and how
	// circular the primary region's boundary is (0..1).
	RegionCount int     `json:"region_count,omitempty"`
	Circularity float64 `json:"circularity,omitempty"`
}

// NotDetected is the canonical negative result.
func NotDetected() Result {
	return Result{Location: LocationNone}
}
