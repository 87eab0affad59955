// Package raster provides the immutable raster image values passed between
// pipeline stages. An Image carries explicit width, height and channel count;
// stages that transform an image always allocate a new one.
package raster

import (
	"errors"
	"fmt"
)

// ErrInvalidImage is returned for images with zero dimensions or an
// unsupported channel layout.
var ErrInvalidImage = errors.New("invalid image")

// Image is a raster with interleaved 8-bit samples in row-major order.
// Supported channel counts are 1 (grayscale) and 3 (RGB).
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// New allocates a zero-filled image with the given geometry.
func New(width, height, channels int) (*Image, error) {
	if err := validate(width, height, channels); err != nil {
		return nil, err
	}
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

func validate(width, height, channels int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: zero or negative dimensions %dx%d", ErrInvalidImage, width, height)
	}
	if channels != 1 && channels != 3 {
		return fmt.Errorf("%w: unsupported channel count %d", ErrInvalidImage, channels)
	}
	return nil
}

// Validate checks the image geometry and buffer length.
func (m *Image) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	if err := validate(m.Width, m.Height, m.Channels); err != nil {
		return err
	}
	if len(m.Pix) != m.Width*m.Height*m.Channels {
		return fmt.Errorf("%w: pixel buffer length %d does not match %dx%dx%d",
			ErrInvalidImage, len(m.Pix), m.Width, m.Height, m.Channels)
	}
	return nil
}

// At returns the sample at (x, y) for the given channel.
func (m *Image) At(x, y, c int) uint8 {
	return m.Pix[(y*m.Width+x)*m.Channels+c]
}

// set is only used while building a new image, before it is handed out.
func (m *Image) set(x, y, c int, v uint8) {
	m.Pix[(y*m.Width+x)*m.Channels+c] = v
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	out := &Image{
		Width:    m.Width,
		Height:   m.Height,
		Channels: m.Channels,
		Pix:      make([]uint8, len(m.Pix)),
	}
	copy(out.Pix, m.Pix)
	return out
}

// Float is a single-channel floating-point raster with samples in [0, 1].
// It is the analysis-resolution buffer handed to segmentation models.
type Float struct {
	Width  int
	Height int
	Pix    []float64
}
