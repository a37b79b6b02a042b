package mathutil

import "math"

// belowOne is the largest float64 strictly less than 1.
var belowOne = math.Nextafter(1, 0)

// Frac returns the fractional part of x in [0, 1), also for negative x.
func Frac(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		return belowOne
	}
	return f
}

// Mirror reflects a unit-interval coordinate, keeping the result in [0, 1).
func Mirror(u float64) float64 {
	m := 1 - u
	if m >= 1 {
		return belowOne
	}
	if m < 0 {
		return 0
	}
	return m
}

// FloorInt returns floor(x) as an int. Unlike int(x) it rounds negative values down.
func FloorInt(x float64) int {
	return int(math.Floor(x))
}

// ApproxEqual reports whether a and b differ by at most eps.
func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
