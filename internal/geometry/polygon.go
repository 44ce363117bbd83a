package geometry

import "math"

// PointInPolygon reports whether p lies inside the polygon using the
// even-odd rule: a horizontal ray from p is cast to +X and edge crossings
// are counted.
func PointInPolygon(p Point, vertices []Point) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := vertices[i], vertices[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// PolygonsIntersect tests two convex polygons with the Separating Axis
// Theorem. Candidate axes are the edge normals of both polygons. Touching
// projections count as overlapping.
func PolygonsIntersect(a, b []Point) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	for _, axis := range edgeNormals(a) {
		if separated(axis, a, b) {
			return false
		}
	}
	for _, axis := range edgeNormals(b) {
		if separated(axis, a, b) {
			return false
		}
	}
	return true
}

// RectanglePolygonIntersect is PolygonsIntersect specialized for an
// axis-aligned rect: only the X and Y axes are tested for the rect side.
func RectanglePolygonIntersect(r Rect, poly []Point) bool {
	if len(poly) == 0 {
		return false
	}
	rect := r.Quad().Points()
	axes := append([]Point{{1, 0}, {0, 1}}, edgeNormals(poly)...)
	for _, axis := range axes {
		if separated(axis, rect, poly) {
			return false
		}
	}
	return true
}

// edgeNormals returns one (unnormalized) normal per polygon edge.
// Degenerate zero-length edges are skipped.
func edgeNormals(poly []Point) []Point {
	normals := make([]Point, 0, len(poly))
	for i := range poly {
		edge := poly[(i+1)%len(poly)].Sub(poly[i])
		if edge.X == 0 && edge.Y == 0 {
			continue
		}
		normals = append(normals, edge.Perp())
	}
	return normals
}

func separated(axis Point, a, b []Point) bool {
	minA, maxA := project(axis, a)
	minB, maxB := project(axis, b)
	return maxA < minB || maxB < minA
}

func project(axis Point, poly []Point) (float64, float64) {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, p := range poly {
		d := axis.Dot(p)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// PointToSegmentDistance returns the distance from p to the segment ab. The
// projection parameter is clamped to [0, 1].
func PointToSegmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Distance(a.Add(ab.Scale(t)))
}
