// Package filterchain composes integer sensor filters into a serial chain.
//
// Stages are built by name through a [Registry] of factories, so a chain can
// be described declaratively (see internal/config) and rebuilt at runtime.
// Every stage consumes the previous stage's integer output, the same way a
// sampling loop would call the filters by hand. The last stage can optionally
// be read in floating point with [Chain.UpdateF].
//
// The state of the whole chain can be captured with [Chain.State] and
// restored into a chain with the same layout for warm restarts.
package filterchain
