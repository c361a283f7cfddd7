package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a deterministic integer sine around offset. period is in
// samples.
func Sine(period float64, amplitude, offset, length int) []int {
	out := make([]int, length)
	if period <= 0 {
		return DC(offset, length)
	}

	step := 2 * math.Pi / period
	for i := range out {
		out[i] = offset + int(math.Round(float64(amplitude)*math.Sin(step*float64(i))))
	}
	return out
}

// Noise generates uniform integer noise in [-amplitude, amplitude] with a
// fixed seed for reproducibility.
func Noise(seed int64, amplitude, length int) []int {
	out := make([]int, length)
	if amplitude <= 0 {
		return out
	}

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.Intn(2*amplitude+1) - amplitude
	}
	return out
}

// Spikes returns a copy of base with height added to every n-th sample,
// starting at offset.
func Spikes(base []int, every, offset, height int) []int {
	out := append([]int(nil), base...)
	if every <= 0 {
		return out
	}

	for i := offset; i >= 0 && i < len(out); i += every {
		out[i] += height
	}
	return out
}

// Impulse generates a single sample of the given height at pos.
func Impulse(length, pos, height int) []int {
	out := make([]int, length)
	if pos >= 0 && pos < length {
		out[pos] = height
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value, length int) []int {
	out := make([]int, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Add returns the element-wise sum of a and b, truncated to the shorter one.
func Add(a, b []int) []int {
	n := min(len(a), len(b))
	out := make([]int, n)
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}
