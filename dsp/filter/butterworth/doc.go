// Package butterworth provides second-order Butterworth low-pass sections for
// integer sensor readings, and cascades of them for any even order.
//
// Each [Section] evaluates
//
//	in0 = gain * v
//	out = a0*in0 + a1*in1 + a2*in2 - b1*out1 - b2*out2
//
// with coefficients derived from fRatio, the ratio of the sample rate to the
// cut-off frequency, where the response is about -3 dB. fRatio must be greater
// than 2. Section k of an order-N filter uses the k-th Butterworth pole pair;
// chaining all sections k = 0 .. N/2-1 yields the order-N response. [Cascade]
// does that chaining and keeps intermediate values in floating point.
//
// A filter's history can be read with State and restored with SetState, which
// gives a better start-up than burn-in when a realistic baseline is known.
package butterworth
