//go:build gocv
// +build gocv

package segment

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"renalscan/internal/mask"
	"renalscan/internal/raster"
)

// Model is a Segmenter backed by a trained segmentation network in ONNX
// format. It honors the same contract as Placeholder, so swapping it in
// changes nothing downstream.
type Model struct {
	net       gocv.Net
	inputSize int
	threshold float32
}

// NewModel loads a segmentation network from an ONNX file.
func NewModel(modelPath string) (*Model, error) {
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load segmentation model from %s", modelPath)
	}
	return &Model{net: net, inputSize: 256, threshold: 0.5}, nil
}

// Close releases the underlying network.
func (s *Model) Close() error {
	return s.net.Close()
}

// Segment runs inference at the network's input resolution and upsamples
// the thresholded probability map back to the source dimensions.
func (s *Model) Segment(original *raster.Image) (*mask.Mask, error) {
	if err := original.Validate(); err != nil {
		return nil, err
	}

	rgb := original.RGB()
	mat, err := gocv.NewMatFromBytes(rgb.Height, rgb.Width, gocv.MatTypeCV8UC3, rgb.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap image for inference: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0,
		image.Pt(s.inputSize, s.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	s.net.SetInput(blob, "")
	prob := s.net.Forward("")
	defer prob.Close()

	probs, err := prob.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("unexpected model output: %w", err)
	}
	if len(probs) < s.inputSize*s.inputSize {
		return nil, fmt.Errorf("unexpected model output size %d", len(probs))
	}

	out, err := mask.New(original.Width, original.Height)
	if err != nil {
		return nil, err
	}
	// Nearest-neighbor upsample of the thresholded probability map.
	for y := 0; y < original.Height; y++ {
		sy := y * s.inputSize / original.Height
		for x := 0; x < original.Width; x++ {
			sx := x * s.inputSize / original.Width
			if probs[sy*s.inputSize+sx] >= s.threshold {
				out.Set(x, y, true)
			}
		}
	}
	return out, nil
}
