// Package median provides a streaming sliding-window median filter for
// integer sensor readings.
//
// A [Filter] keeps the last L samples in a fixed circular buffer and a
// parallel rank index that lists the buffer slots in ascending value order.
// Each [Filter.Update] overwrites the oldest slot and moves only that slot's
// entry through the rank index, one neighbour at a time, so an update costs
// O(L) in the worst case and O(1) when the new value keeps its rank. The index
// is never re-sorted after the first sample.
//
// The filter suppresses impulses and glitches shorter than half the window
// while preserving step changes, delayed by L/2 samples.
//
// Window lengths are silently clamped to [1, MaxLength] and forced odd so that
// a unique middle rank exists. [Filter.Len] and [Filter.Adjusted] expose the
// effective length so callers can detect the adjustment.
//
// All storage lives inside the Filter value; Update never allocates. A Filter
// is not safe for concurrent use.
package median
