// Package movavg provides an unweighted moving average over the last L
// integer samples.
//
// The running sum is kept in int64 and updated by subtracting the evicted
// sample, so each update is O(1). Long windows give a slow-moving output.
package movavg
