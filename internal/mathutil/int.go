package mathutil

import "golang.org/x/exp/constraints"

// Number is any integer or float type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Min returns the smaller of two values (search: int-math).
func Min[T Number](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two values (search: int-math).
func Max[T Number](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Abs returns the absolute value (search: int-math).
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0, or 1 based on sign (search: int-math).
func Sign[T constraints.Signed | constraints.Float](x T) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Clamp limits x to [lo, hi].
func Clamp[T Number](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
