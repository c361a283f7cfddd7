// Package lowpass provides a first-order exponential low-pass filter for
// integer sensor readings.
//
// Each update moves the output a fraction alpha towards the new sample:
//
//	out += alpha * (v - out)
//
// alpha = 1 passes the input through, alpha = 0 freezes the output.
// [AlphaFromRatio] derives alpha from the ratio of sample rate to corner
// frequency.
package lowpass
