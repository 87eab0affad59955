package detect

import (
	"math/rand"

	"renalscan/internal/analyze"
	"renalscan/internal/annotate"
	"renalscan/internal/config"
	"renalscan/internal/segment"
)

// FromConfig builds a Detector from the application configuration. A
// non-zero seed makes the run reproducible: the segmenter and the
// confidence source get their own seeded generators so concurrent stages
// never share one rand. The returned closer releases model resources and
// is a no-op for the placeholder.
func FromConfig(cfg *config.Config, seed int64) (*Detector, func() error, error) {
	var segRng, confRng *rand.Rand
	if seed != 0 {
		segRng = rand.New(rand.NewSource(seed))
		confRng = rand.New(rand.NewSource(seed + 1))
	}

	closer := func() error { return nil }

	var segmenter segment.Segmenter
	if cfg.Detection.ModelPath != "" {
		model, err := segment.NewModel(cfg.Detection.ModelPath)
		if err != nil {
			return nil, nil, err
		}
		segmenter = model
		closer = model.Close
	} else {
		params := segment.DefaultPlaceholderParams()
		params.DetectionRate = cfg.Detection.DetectionRate
		params.MinBlobs = cfg.Detection.MinBlobs
		params.MaxBlobs = cfg.Detection.MaxBlobs
		params.MinRadius = cfg.Detection.MinRadius
		params.MaxRadius = cfg.Detection.MaxRadius
		params.BorderMargin = cfg.Detection.BorderMargin
		segmenter = segment.NewPlaceholder(params, segRng)
	}

	analyzer := analyze.New(confRng)
	analyzer.ConfidenceMin = cfg.Detection.ConfidenceMin
	analyzer.ConfidenceMax = cfg.Detection.ConfidenceMax

	annoParams := annotate.DefaultParams()
	annoParams.BlendFactor = cfg.Annotation.BlendFactor
	annoParams.StrokeWidth = cfg.Annotation.StrokeWidth
	annoParams.Label = cfg.Annotation.Label

	return New(segmenter, analyzer, annotate.New(annoParams)), closer, nil
}
