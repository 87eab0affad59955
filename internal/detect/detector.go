// Package detect wires the detection pipeline: preprocessing, segmentation,
// region analysis, annotation and report composition. Each stage is a pure
// function over explicit inputs; the Detector only connects them.
package detect

import (
	"fmt"

	"renalscan/internal/analyze"
	"renalscan/internal/annotate"
	"renalscan/internal/raster"
	"renalscan/internal/report"
	"renalscan/internal/segment"
)

// AnalysisSize is the fixed square resolution of the normalized analysis
// buffer handed to segmentation models.
const AnalysisSize = 256

// Preprocess reduces a raw image to a single channel, resizes it to the
// analysis resolution and scales intensities into [0, 1]. It returns both
// the normalized buffer (model input) and the untouched original, since
// mask generation and annotation operate at source resolution.
func Preprocess(img *raster.Image) (*raster.Float, *raster.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, nil, err
	}
	resized, err := img.Grayscale().ResizeGray(AnalysisSize, AnalysisSize)
	if err != nil {
		return nil, nil, err
	}
	normalized, err := resized.Normalize()
	if err != nil {
		return nil, nil, err
	}
	return normalized, img, nil
}

// Outcome bundles everything a caller needs from one detection run.
type Outcome struct {
	Analysis  analyze.Result
	Annotated *raster.Image
	Report    string
}

// Detector runs the full pipeline over one image. Stateless across runs
// and safe for concurrent use as long as its stages are.
type Detector struct {
	segmenter segment.Segmenter
	analyzer  *analyze.Analyzer
	annotator *annotate.Annotator
}

// New creates a Detector. Nil stages get defaults: the placeholder
// segmenter with time-seeded randomness, a fresh analyzer, and the default
// annotator.
func New(segmenter segment.Segmenter, analyzer *analyze.Analyzer, annotator *annotate.Annotator) *Detector {
	if segmenter == nil {
		segmenter = segment.NewPlaceholder(segment.DefaultPlaceholderParams(), nil)
	}
	if analyzer == nil {
		analyzer = analyze.New(nil)
	}
	if annotator == nil {
		annotator = annotate.New(annotate.DefaultParams())
	}
	return &Detector{segmenter: segmenter, analyzer: analyzer, annotator: annotator}
}

// Run executes the pipeline on one image and returns the structured
// analysis, the annotated image and the narrative report.
func (d *Detector) Run(img *raster.Image) (*Outcome, error) {
	// The normalized buffer is consumed by model-backed segmenters at
	// inference time; here preprocessing validates the input and keeps
	// the original at source resolution for the later stages.
	_, original, err := Preprocess(img)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	m, err := d.segmenter.Segment(original)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}

	res, err := d.analyzer.Analyze(m)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	annotated, err := d.annotator.Annotate(original, m, res)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	return &Outcome{
		Analysis:  res,
		Annotated: annotated,
		Report:    report.Compose(res),
	}, nil
}
