package geometry

import "math"

// IsFinite returns true if v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// NearlyEqual reports whether a and b differ by less than tol.
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// Slope returns the slope of the line from (x1,y1) to (x2,y2) and whether
// it is defined (false for vertical lines).
func Slope(x1, y1, x2, y2 float64) (float64, bool) {
	dx := x2 - x1
	if dx == 0 {
		return 0, false
	}
	return (y2 - y1) / dx, true
}
