package geometry

import "math"

// Point is a 2D point or vector in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point        { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point        { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point    { return Point{p.X * s, p.Y * s} }
func (p Point) Dot(q Point) float64      { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64    { return p.X*q.Y - p.Y*q.X }
func (p Point) Len() float64             { return math.Hypot(p.X, p.Y) }
func (p Point) Distance(q Point) float64 { return p.Sub(q).Len() }

// Rotate rotates the vector by radians around the origin.
func (p Point) Rotate(radians float64) Point {
	cos, sin := math.Cos(radians), math.Sin(radians)
	return Point{p.X*cos - p.Y*sin, p.X*sin + p.Y*cos}
}

// Perp returns the vector rotated by +90 degrees.
func (p Point) Perp() Point { return Point{-p.Y, p.X} }

// Near reports whether p and q are within eps of each other on both axes.
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Half returns the size halved.
func (s Size) Half() Point { return Point{s.Width / 2, s.Height / 2} }

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }
