package raster

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Decode reads an image in JPEG, PNG or TIFF format and converts it to a
// 3-channel RGB raster.
func Decode(r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return FromImage(img)
}

// FromImage converts a standard library image to a 3-channel RGB raster.
func FromImage(img image.Image) (*Image, error) {
	bounds := img.Bounds()
	out, err := New(bounds.Dx(), bounds.Dy(), 3)
	if err != nil {
		return nil, err
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out.set(x-bounds.Min.X, y-bounds.Min.Y, 0, uint8(r>>8))
			out.set(x-bounds.Min.X, y-bounds.Min.Y, 1, uint8(g>>8))
			out.set(x-bounds.Min.X, y-bounds.Min.Y, 2, uint8(b>>8))
		}
	}
	return out, nil
}

// ToImage converts the raster to a standard library image for encoding.
func (m *Image) ToImage() image.Image {
	if m.Channels == 1 {
		gray := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
		copy(gray.Pix, m.Pix)
		return gray
	}
	rgba := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := rgba.PixOffset(x, y)
			rgba.Pix[i+0] = m.At(x, y, 0)
			rgba.Pix[i+1] = m.At(x, y, 1)
			rgba.Pix[i+2] = m.At(x, y, 2)
			rgba.Pix[i+3] = 0xff
		}
	}
	return rgba
}

// Grayscale reduces the image to a single channel using the ITU-R BT.601
// luminance weights. A grayscale input is returned as a copy unchanged.
func (m *Image) Grayscale() *Image {
	if m.Channels == 1 {
		return m.Clone()
	}
	out := &Image{
		Width:    m.Width,
		Height:   m.Height,
		Channels: 1,
		Pix:      make([]uint8, m.Width*m.Height),
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r := float64(m.At(x, y, 0))
			g := float64(m.At(x, y, 1))
			b := float64(m.At(x, y, 2))
			out.set(x, y, 0, uint8(0.299*r+0.587*g+0.114*b+0.5))
		}
	}
	return out
}

// RGB expands the image to three channels. A 3-channel input is returned as
// a copy unchanged.
func (m *Image) RGB() *Image {
	if m.Channels == 3 {
		return m.Clone()
	}
	out := &Image{
		Width:    m.Width,
		Height:   m.Height,
		Channels: 3,
		Pix:      make([]uint8, m.Width*m.Height*3),
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := m.At(x, y, 0)
			out.set(x, y, 0, v)
			out.set(x, y, 1, v)
			out.set(x, y, 2, v)
		}
	}
	return out
}

// ResizeGray scales a single-channel raster to the given dimensions using
// bilinear interpolation.
func (m *Image) ResizeGray(width, height int) (*Image, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Channels != 1 {
		return nil, fmt.Errorf("%w: resize expects a single-channel image, got %d channels",
			ErrInvalidImage, m.Channels)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", ErrInvalidImage, width, height)
	}

	src := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(src.Pix, m.Pix)
	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	out := &Image{Width: width, Height: height, Channels: 1, Pix: make([]uint8, width*height)}
	copy(out.Pix, dst.Pix)
	return out, nil
}

// Normalize scales a single-channel raster into a floating-point buffer
// with samples in [0, 1].
func (m *Image) Normalize() (*Float, error) {
	if m.Channels != 1 {
		return nil, fmt.Errorf("%w: normalize expects a single-channel image, got %d channels",
			ErrInvalidImage, m.Channels)
	}
	out := &Float{Width: m.Width, Height: m.Height, Pix: make([]float64, len(m.Pix))}
	for i, v := range m.Pix {
		out.Pix[i] = float64(v) / 255.0
	}
	return out, nil
}
