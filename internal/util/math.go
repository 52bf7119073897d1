package util

import "math"

// AbsFloat64 returns the absolute value of x.
func AbsFloat64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// FloorInt returns floor(x) as an int.
func FloorInt(x float64) int {
	return int(math.Floor(x))
}

// CeilInt returns ceil(x) as an int.
func CeilInt(x float64) int {
	return int(math.Ceil(x))
}

// MinMax returns the smallest and largest values in vs.
// Panics on an empty slice; callers guarantee non-empty input.
func MinMax(vs []float64) (float64, float64) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
