package geometry

import "math"

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromCenter builds the rect of the given size centered on c.
func RectFromCenter(c Point, s Size) Rect {
	return Rect{X: c.X - s.Width/2, Y: c.Y - s.Height/2, Width: s.Width, Height: s.Height}
}

// BoundsOf returns the smallest rect containing every point.
// An empty point list yields the zero rect.
func BoundsOf(points ...Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains checks if a point is inside the rect (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Size returns the rect dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Point {
	return Point{r.X + r.Width, r.Y + r.Height}
}

// Quad returns the rect corners clockwise from top-left.
func (r Rect) Quad() Quad {
	return Quad{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
}

// Quad is a four-corner polygon, ordered top-left, top-right, bottom-right,
// bottom-left in the frame it was built in. Rotated rects are quads.
type Quad [4]Point

// Points returns the corners as a slice for the polygon helpers.
func (q Quad) Points() []Point {
	return []Point{q[0], q[1], q[2], q[3]}
}

// Center returns the average of the four corners.
func (q Quad) Center() Point {
	return Point{
		(q[0].X + q[1].X + q[2].X + q[3].X) / 4,
		(q[0].Y + q[1].Y + q[2].Y + q[3].Y) / 4,
	}
}

// Bounds returns the axis-aligned box of the quad.
func (q Quad) Bounds() Rect {
	return BoundsOf(q[0], q[1], q[2], q[3])
}

// Transform maps every corner through m.
func (q Quad) Transform(m Matrix2D) Quad {
	return Quad{m.Apply(q[0]), m.Apply(q[1]), m.Apply(q[2]), m.Apply(q[3])}
}

// Edges returns the four edges as point pairs, closing back to the first corner.
func (q Quad) Edges() [4][2]Point {
	return [4][2]Point{{q[0], q[1]}, {q[1], q[2]}, {q[2], q[3]}, {q[3], q[0]}}
}
