package annotate

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"renalscan/internal/raster"
)

// blendPixel composites the given color over the pixel at the blend factor:
// factor of the overlay color, 1-factor of the base.
func blendPixel(img *raster.Image, x, y int, c color.RGBA, factor float64) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return
	}
	i := (y*img.Width + x) * img.Channels
	over := [3]float64{float64(c.R), float64(c.G), float64(c.B)}
	for ch := 0; ch < 3; ch++ {
		base := float64(img.Pix[i+ch])
		img.Pix[i+ch] = uint8(base*(1-factor) + over[ch]*factor + 0.5)
	}
}

// setPixel writes the color opaquely, clipping out-of-range coordinates.
func setPixel(img *raster.Image, x, y int, c color.RGBA) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return
	}
	i := (y*img.Width + x) * img.Channels
	img.Pix[i+0] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
}

// drawDisc fills a filled square brush of Chebyshev radius r at (cx, cy).
func drawDisc(img *raster.Image, cx, cy, r int, c color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			setPixel(img, cx+dx, cy+dy, c)
		}
	}
}

// drawLine draws a Bresenham line with the given stroke width.
func drawLine(img *raster.Image, from, to image.Point, width int, c color.RGBA) {
	r := width / 2
	x0, y0 := from.X, from.Y
	x1, y1 := to.X, to.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		drawDisc(img, x0, y0, r, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawArrow draws a line from tail to tip with a two-stroke arrowhead at
// the tip.
func drawArrow(img *raster.Image, tail, tip image.Point, width int, c color.RGBA) {
	drawLine(img, tail, tip, width, c)

	angle := math.Atan2(float64(tail.Y-tip.Y), float64(tail.X-tip.X))
	const headLen = 8.0
	const headSpread = math.Pi / 6
	for _, side := range [2]float64{headSpread, -headSpread} {
		end := image.Pt(
			tip.X+int(headLen*math.Cos(angle+side)+0.5),
			tip.Y+int(headLen*math.Sin(angle+side)+0.5),
		)
		drawLine(img, tip, end, width, c)
	}
}

// drawLabel renders text at the given baseline origin using the built-in
// 7x13 face.
func drawLabel(img *raster.Image, text string, at image.Point, c color.RGBA) {
	face := basicfont.Face7x13

	// Render into a standalone RGBA buffer, then copy opaque glyph pixels
	// onto the raster. Keeps the raster free of draw.Image plumbing.
	w := font.MeasureString(face, text).Ceil()
	h := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	if w <= 0 || h <= 0 {
		return
	}

	scratch := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  scratch,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if _, _, _, a := scratch.At(x, y).RGBA(); a > 0x7fff {
				setPixel(img, at.X+x, at.Y-ascent+y, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
