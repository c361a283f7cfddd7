// Package response measures the time and frequency response of integer
// sample filters.
//
// Filters are driven with an integer impulse or step of a chosen amplitude and
// the float output is scaled back by that amplitude, so integer-rounding
// filters such as the median are measured at a useful resolution. Before the
// test signal one zero sample is submitted, which settles the first-sample
// warm-up of every filter to a zero history whatever its burn-in policy.
//
// [Analyzer] turns the impulse response into a magnitude spectrum with an FFT.
// Nonlinear filters (median) have no transfer function; their "spectrum" only
// describes the response to that particular impulse.
package response
