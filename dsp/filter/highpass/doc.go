// Package highpass provides a first-order exponential high-pass filter that
// removes slow drift and offsets from integer sensor readings.
package highpass
