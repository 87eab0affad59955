package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name     string
		w, h, ch int
	}{
		{"zero width", 0, 10, 1},
		{"zero height", 10, 0, 3},
		{"negative width", -1, 10, 1},
		{"two channels", 10, 10, 2},
		{"four channels", 10, 10, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.w, tt.h, tt.ch)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}

func TestValidate_BufferMismatch(t *testing.T) {
	img, err := New(4, 4, 1)
	require.NoError(t, err)
	img.Pix = img.Pix[:8]
	assert.ErrorIs(t, img.Validate(), ErrInvalidImage)

	var nilImg *Image
	assert.ErrorIs(t, nilImg.Validate(), ErrInvalidImage)
}

func TestGrayscale_LuminanceWeights(t *testing.T) {
	img, err := New(1, 1, 3)
	require.NoError(t, err)
	img.Pix[0], img.Pix[1], img.Pix[2] = 255, 0, 0

	gray := img.Grayscale()
	require.Equal(t, 1, gray.Channels)
	// 0.299 * 255 rounds to 76.
	assert.Equal(t, uint8(76), gray.At(0, 0, 0))
}

func TestGrayscale_GrayInputCopied(t *testing.T) {
	img, err := New(2, 2, 1)
	require.NoError(t, err)
	img.Pix[0] = 42

	gray := img.Grayscale()
	assert.Equal(t, img.Pix, gray.Pix)

	// A copy, not an alias.
	gray.Pix[0] = 7
	assert.Equal(t, uint8(42), img.Pix[0])
}

func TestRGB_ExpandsChannels(t *testing.T) {
	img, err := New(2, 1, 1)
	require.NoError(t, err)
	img.Pix[0] = 10
	img.Pix[1] = 200

	rgb := img.RGB()
	require.Equal(t, 3, rgb.Channels)
	for c := 0; c < 3; c++ {
		assert.Equal(t, uint8(10), rgb.At(0, 0, c))
		assert.Equal(t, uint8(200), rgb.At(1, 0, c))
	}
}

func TestResizeGray(t *testing.T) {
	img, err := New(8, 8, 1)
	require.NoError(t, err)
	for i := range img.Pix {
		img.Pix[i] = 128
	}

	small, err := img.ResizeGray(4, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, small.Width)
	assert.Equal(t, 4, small.Height)
	// A uniform image stays uniform under bilinear scaling.
	for _, v := range small.Pix {
		assert.Equal(t, uint8(128), v)
	}
}

func TestResizeGray_RejectsColorInput(t *testing.T) {
	img, err := New(8, 8, 3)
	require.NoError(t, err)
	_, err = img.ResizeGray(4, 4)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestNormalize_UnitInterval(t *testing.T) {
	img, err := New(2, 1, 1)
	require.NoError(t, err)
	img.Pix[0] = 0
	img.Pix[1] = 255

	f, err := img.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 0.0, f.Pix[0])
	assert.Equal(t, 1.0, f.Pix[1])
}

func TestFromImage_RoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	img, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, uint8(10), img.At(1, 1, 0))
	assert.Equal(t, uint8(20), img.At(1, 1, 1))
	assert.Equal(t, uint8(30), img.At(1, 1, 2))

	back := img.ToImage()
	r, g, b, _ := back.At(1, 1).RGBA()
	assert.Equal(t, uint8(10), uint8(r>>8))
	assert.Equal(t, uint8(20), uint8(g>>8))
	assert.Equal(t, uint8(30), uint8(b>>8))
}

func TestDecode_PNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 5, 5))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Width)
	assert.Equal(t, 5, img.Height)
	assert.Equal(t, 3, img.Channels)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestClone_Independent(t *testing.T) {
	img, err := New(2, 2, 3)
	require.NoError(t, err)
	clone := img.Clone()
	clone.Pix[0] = 99
	assert.Equal(t, uint8(0), img.Pix[0])
}
