package geometry

import "math"

// NormalizeAngle wraps radians into [0, 2π).
func NormalizeAngle(radians float64) float64 {
	a := math.Mod(radians, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngleBetween returns the signed angle in radians that rotates the vector
// (from - origin) onto (to - origin). Zero-length vectors yield 0.
func AngleBetween(origin, from, to Point) float64 {
	a := from.Sub(origin)
	b := to.Sub(origin)
	if a.Len() == 0 || b.Len() == 0 {
		return 0
	}
	return math.Atan2(a.Cross(b), a.Dot(b))
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 { return radians * 180 / math.Pi }

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 { return degrees * math.Pi / 180 }
