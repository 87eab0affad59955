package mask

import (
	"renalscan/pkg/geometry"
)

// Region is one connected foreground component, described by its ordered
// outer boundary. Internal holes are ignored; only the external contour
// matters for area and fill.
type Region struct {
	// Label is the 1-based component label in extraction (raster scan) order.
	Label int32

	// Contour is the closed outer boundary as pixel centers, traced
	// clockwise in image coordinates.
	Contour []geometry.PointInt

	// PixelCount is the number of pixels in the component.
	PixelCount int
}

// Bounds returns the bounding rectangle of the region's contour.
func (r Region) Bounds() geometry.RectInt {
	return geometry.BoundingBox(r.Contour)
}

// Moore neighborhood in clockwise order, starting west: W NW N NE E SE S SW.
var moore = [8]geometry.PointInt{
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
}

// Regions extracts all external connected foreground regions in raster scan
// order.
func (m *Mask) Regions() []Region {
	regions, _ := m.Components()
	return regions
}

// Components extracts all external regions plus the label grid that assigns
// every foreground pixel to its region. The grid has one int32 per pixel;
// zero means background.
func (m *Mask) Components() ([]Region, []int32) {
	labels := make([]int32, m.Width*m.Height)
	var regions []Region
	next := int32(1)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			idx := y*m.Width + x
			if m.Bits[idx] == 0 || labels[idx] != 0 {
				continue
			}
			start := geometry.PointInt{X: x, Y: y}
			count := m.flood(start, next, labels)
			regions = append(regions, Region{
				Label:      next,
				Contour:    m.traceBoundary(start, next, labels),
				PixelCount: count,
			})
			next++
		}
	}
	return regions, labels
}

// flood labels the 8-connected component containing start and returns its
// pixel count.
func (m *Mask) flood(start geometry.PointInt, label int32, labels []int32) int {
	queue := []geometry.PointInt{start}
	labels[start.Y*m.Width+start.X] = label
	count := 0

	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		count++

		for _, d := range moore {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || nx >= m.Width || ny < 0 || ny >= m.Height {
				continue
			}
			ni := ny*m.Width + nx
			if m.Bits[ni] == 0 || labels[ni] != 0 {
				continue
			}
			labels[ni] = label
			queue = append(queue, geometry.PointInt{X: nx, Y: ny})
		}
	}
	return count
}

// traceBoundary walks the outer contour of a labeled component using
// Moore-neighbor tracing. The start pixel is the component's first pixel in
// raster scan order, so its west neighbor is guaranteed to lie outside the
// component and serves as the initial backtrack.
func (m *Mask) traceBoundary(start geometry.PointInt, label int32, labels []int32) []geometry.PointInt {
	inside := func(p geometry.PointInt) bool {
		if p.X < 0 || p.X >= m.Width || p.Y < 0 || p.Y >= m.Height {
			return false
		}
		return labels[p.Y*m.Width+p.X] == label
	}

	contour := []geometry.PointInt{start}
	cur := start
	backtrack := 0 // direction from cur toward the previous position
	maxSteps := 4 * (m.Width*m.Height + 1)

	for steps := 0; steps < maxSteps; steps++ {
		found := -1
		for i := 1; i <= 8; i++ {
			d := (backtrack + i) % 8
			n := geometry.PointInt{X: cur.X + moore[d].X, Y: cur.Y + moore[d].Y}
			if inside(n) {
				found = d
				break
			}
		}
		if found < 0 {
			// Isolated pixel
			return contour
		}
		next := geometry.PointInt{X: cur.X + moore[found].X, Y: cur.Y + moore[found].Y}
		if next == start {
			return contour
		}
		contour = append(contour, next)
		cur = next
		backtrack = (found + 4) % 8
	}
	return contour
}
