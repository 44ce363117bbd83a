package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func square(x, y, size float64) []Point {
	return Rect{X: x, Y: y, Width: size, Height: size}.Quad().Points()
}

func TestPointInPolygon(t *testing.T) {
	poly := square(0, 0, 10)

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Pt(5, 5), true},
		{"outside right", Pt(11, 5), false},
		{"outside above", Pt(5, -1), false},
		{"far away", Pt(-100, 200), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointInPolygon(tt.p, poly))
		})
	}

	assert.False(t, PointInPolygon(Pt(0, 0), []Point{{0, 0}, {1, 1}}), "fewer than 3 vertices")
}

func TestPointInPolygonConcave(t *testing.T) {
	// U shape open at the top
	u := []Point{{0, 0}, {3, 0}, {3, 3}, {2, 3}, {2, 1}, {1, 1}, {1, 3}, {0, 3}}
	assert.True(t, PointInPolygon(Pt(0.5, 2), u))
	assert.False(t, PointInPolygon(Pt(1.5, 2), u))
	assert.True(t, PointInPolygon(Pt(1.5, 0.5), u))
}

func TestPointInPolygonStartIndexInvariant(t *testing.T) {
	hexagon := EllipsePolygon(Pt(3, -2), 10, 6, 0.3, 6)
	samples := []Point{{3, -2}, {10, -2}, {12.5, -2}, {3, 3}, {3, 8}, {-6, -1}, {-9, 0}}

	for _, p := range samples {
		want := PointInPolygon(p, hexagon)
		for shift := 1; shift < len(hexagon); shift++ {
			rotated := append(append([]Point{}, hexagon[shift:]...), hexagon[:shift]...)
			assert.Equal(t, want, PointInPolygon(p, rotated), "point %v shift %d", p, shift)
		}
	}
}

func TestPolygonsIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b []Point
		want bool
	}{
		{"disjoint", square(0, 0, 10), square(20, 0, 10), false},
		{"overlapping", square(0, 0, 10), square(5, 5, 10), true},
		{"shared edge", square(0, 0, 10), square(10, 0, 10), true},
		{"shared corner", square(0, 0, 10), square(10, 10, 10), true},
		{"contained", square(0, 0, 10), square(2, 2, 2), true},
		{"diamond clear of corner", square(0, 0, 10), []Point{{13, 9}, {17, 13}, {13, 17}, {9, 13}}, false},
		{"empty", nil, square(0, 0, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolygonsIntersect(tt.a, tt.b))
			assert.Equal(t, tt.want, PolygonsIntersect(tt.b, tt.a), "symmetry")
		})
	}
}

func TestRectanglePolygonIntersect(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	assert.False(t, RectanglePolygonIntersect(r, square(20, 20, 5)))
	assert.True(t, RectanglePolygonIntersect(r, square(8, 8, 5)))
	assert.True(t, RectanglePolygonIntersect(r, square(10, 0, 5)), "touching edge is inclusive")

	// The diamond's bounding box overlaps the rect corner but the
	// diamond itself stays clear of it.
	diamond := []Point{{13, 9}, {17, 13}, {13, 17}, {9, 13}}
	assert.True(t, BoundsOf(diamond...).Contains(Pt(9.5, 9.5)))
	assert.False(t, RectanglePolygonIntersect(r, diamond))
}

func TestPointToSegmentDistance(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)

	assert.InDelta(t, 5, PointToSegmentDistance(Pt(5, 5), a, b), 1e-9)
	assert.InDelta(t, 5, PointToSegmentDistance(Pt(-3, 4), a, b), 1e-9, "clamped to a")
	assert.InDelta(t, 5, PointToSegmentDistance(Pt(13, -4), a, b), 1e-9, "clamped to b")
	assert.InDelta(t, math.Sqrt2, PointToSegmentDistance(Pt(1, 1), a, a), 1e-9, "degenerate segment")
}

func TestCirclePolygonIntersect(t *testing.T) {
	poly := square(0, 0, 10)

	assert.True(t, CirclePolygonIntersect(Pt(5, 5), 1, poly), "center inside")
	assert.True(t, CirclePolygonIntersect(Pt(12, 5), 2, poly), "edge within radius")
	assert.False(t, CirclePolygonIntersect(Pt(13, 5), 2, poly))
	assert.False(t, CirclePolygonIntersect(Pt(12, 12), 2, poly), "corner farther than radius")
}

func TestEllipsePolygonIntersect(t *testing.T) {
	poly := square(0, 0, 10)

	assert.True(t, EllipsePolygonIntersect(Pt(15, 5), 6, 2, 0, poly, 0))
	assert.False(t, EllipsePolygonIntersect(Pt(15, 5), 4, 2, 0, poly, 0))
	// Rotating the long axis away from the square separates them.
	assert.False(t, EllipsePolygonIntersect(Pt(15, 5), 6, 2, math.Pi/2, poly, 0))

	pts := EllipsePolygon(Pt(0, 0), 2, 1, 0, 0)
	assert.Len(t, pts, DefaultEllipseSegments)
	assert.InDelta(t, 2, pts[0].X, 1e-9)
}
