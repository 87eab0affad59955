package geometry

import "math"

// ContourArea computes the enclosed area of a closed contour using the
// shoelace formula. The contour is treated as a polygon over pixel centers,
// so the result for a rasterized blob is slightly below its pixel count.
func ContourArea(contour []PointInt) float64 {
	if len(contour) < 3 {
		return 0
	}
	var sum float64
	n := len(contour)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += float64(contour[i].X)*float64(contour[j].Y) -
			float64(contour[j].X)*float64(contour[i].Y)
	}
	return math.Abs(sum) / 2
}

// ContourCentroid computes the area-weighted centroid of a closed contour
// from its zeroth and first spatial moments. Returns false for degenerate
// contours whose zeroth moment is zero; callers are expected to fall back
// to the origin in that case.
func ContourCentroid(contour []PointInt) (Point2D, bool) {
	if len(contour) < 3 {
		return Point2D{}, false
	}
	var m00, m10, m01 float64
	n := len(contour)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := float64(contour[i].X), float64(contour[i].Y)
		xj, yj := float64(contour[j].X), float64(contour[j].Y)
		cross := xi*yj - xj*yi
		m00 += cross
		m10 += (xi + xj) * cross
		m01 += (yi + yj) * cross
	}
	m00 /= 2
	if m00 == 0 {
		return Point2D{}, false
	}
	return Point2D{X: m10 / (6 * m00), Y: m01 / (6 * m00)}, true
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []PointInt) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i].ToFloat(), polygon[j].ToFloat()

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}
