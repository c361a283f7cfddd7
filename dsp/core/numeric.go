package core

import "math"

// ClampInt limits value to the inclusive range [min, max].
func ClampInt(value, min, max int) int {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// IsFinite reports whether x is neither NaN nor Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// RoundToInt rounds x half away from zero and saturates at the int range.
// NaN maps to 0.
func RoundToInt(x float64) int {
	if math.IsNaN(x) {
		return 0
	}

	r := math.Round(x)
	if r >= math.MaxInt {
		return math.MaxInt
	}

	if r <= math.MinInt {
		return math.MinInt
	}

	return int(r)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
