// Package mask provides binary segmentation masks and the extraction of
// connected foreground regions from them.
package mask

import (
	"fmt"

	"renalscan/internal/raster"
)

// Foreground is the sample value marking candidate pixels.
const Foreground uint8 = 255

// Mask is a single-channel binary raster with the same spatial dimensions
// as the image it was derived from. A segmenter builds the mask in its own
// scratch buffer; once returned, the mask is treated as read-only.
type Mask struct {
	Width  int
	Height int
	Bits   []uint8
}

// New allocates an all-background mask.
func New(width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: mask dimensions %dx%d", raster.ErrInvalidImage, width, height)
	}
	return &Mask{Width: width, Height: height, Bits: make([]uint8, width*height)}, nil
}

// At reports whether the pixel at (x, y) is foreground. Out-of-range
// coordinates are background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x] != 0
}

// Set marks or clears the pixel at (x, y). Out-of-range coordinates are
// ignored, so shape rasterizers do not need to clip.
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	if on {
		m.Bits[y*m.Width+x] = Foreground
	} else {
		m.Bits[y*m.Width+x] = 0
	}
}

// ForegroundCount returns the number of foreground pixels.
func (m *Mask) ForegroundCount() int {
	n := 0
	for _, b := range m.Bits {
		if b != 0 {
			n++
		}
	}
	return n
}
