package geometry

import "math"

// DefaultEllipseSegments is the N-gon resolution used when an ellipse is
// reduced to a polygon for intersection tests.
const DefaultEllipseSegments = 32

// EllipsePolygon discretizes a rotated ellipse into an n-gon. n < 3 falls
// back to DefaultEllipseSegments.
func EllipsePolygon(center Point, rx, ry, rotation float64, n int) []Point {
	if n < 3 {
		n = DefaultEllipseSegments
	}
	m := FromPlacement(center, rotation)
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		points[i] = m.Apply(Point{rx * math.Cos(t), ry * math.Sin(t)})
	}
	return points
}

// EllipsePolygonIntersect tests a rotated ellipse against a convex polygon by
// discretizing the ellipse and running polygon SAT.
func EllipsePolygonIntersect(center Point, rx, ry, rotation float64, poly []Point, segments int) bool {
	return PolygonsIntersect(EllipsePolygon(center, rx, ry, rotation, segments), poly)
}

// CirclePolygonIntersect reports whether a circle touches a polygon: either
// the center lies inside it or some edge passes within radius.
func CirclePolygonIntersect(center Point, radius float64, poly []Point) bool {
	if PointInPolygon(center, poly) {
		return true
	}
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		if PointToSegmentDistance(center, a, b) <= radius {
			return true
		}
	}
	return false
}
