package movavg

import (
	"errors"

	"github.com/cwbudde/algo-sensorfilt/dsp/delay"
)

// MaxLength is the largest supported window length.
const MaxLength = delay.MaxLength

// ErrNotWarmed is returned by SetState when an unwarmed state would rewind a
// filter that has already received samples.
var ErrNotWarmed = errors.New("movavg: cannot restore an unwarmed state into a warmed filter")

// State is a snapshot of the averaging window.
type State struct {
	Values []int
	Cursor int
	Warmed bool
}

// Filter is a finite-length moving average without weighting.
type Filter struct {
	history   delay.Line
	sum       int64
	requested int
	burnIn    bool
	warmed    bool
}

// New returns a moving average over length samples, clamped to
// [1, MaxLength]. When burnIn is set the first sample fills the window so the
// output starts at that sample; otherwise the window starts as zeros.
func New(length int, burnIn bool) *Filter {
	return &Filter{
		history:   delay.MakeLine(length),
		requested: length,
		burnIn:    burnIn,
	}
}

// Len returns the effective window length.
func (f *Filter) Len() int { return f.history.Len() }

// Requested returns the window length passed to New.
func (f *Filter) Requested() int { return f.requested }

// Adjusted reports whether the requested length was clamped.
func (f *Filter) Adjusted() bool { return f.requested != f.Len() }

// Update submits one sample and returns the rounded integer average.
//
// Rounding adds half the window length before the truncating division. For
// negative sums the result is biased towards zero: three samples of -10
// average to -9.
func (f *Filter) Update(v int) int {
	f.accumulate(v)
	n := int64(f.Len())
	return int((f.sum + n/2) / n)
}

// UpdateF submits one sample and returns the average in floating point.
func (f *Filter) UpdateF(v int) float64 {
	f.accumulate(v)
	return float64(f.sum) / float64(f.Len())
}

// Sum returns the running sum of the window.
func (f *Filter) Sum() int64 { return f.sum }

// History returns a copy of the raw circular buffer in storage order.
func (f *Filter) History() []int {
	out := make([]int, f.Len())
	f.history.CopyTo(out)
	return out
}

// LastIndex returns the buffer slot written by the most recent update.
func (f *Filter) LastIndex() int {
	return f.history.LastIndex()
}

// State returns a copy of the current window state.
func (f *Filter) State() State {
	return State{
		Values: f.History(),
		Cursor: f.history.Cursor(),
		Warmed: f.warmed,
	}
}

// SetState restores a snapshot from a filter with the same window length.
// An unwarmed state is a no-op on an unwarmed filter and fails with
// ErrNotWarmed otherwise.
func (f *Filter) SetState(st State) error {
	if !st.Warmed {
		if f.warmed {
			return ErrNotWarmed
		}
		return nil
	}

	if err := f.history.Restore(st.Values, st.Cursor); err != nil {
		return err
	}

	f.sum = 0
	for _, v := range f.history.Values() {
		f.sum += int64(v)
	}
	f.warmed = true

	return nil
}

func (f *Filter) accumulate(v int) {
	if !f.warmed {
		f.warmed = true

		fill := 0
		if f.burnIn {
			fill = v
		}
		f.history.Fill(fill)
		f.sum = int64(fill) * int64(f.Len())
	}

	f.sum -= int64(f.history.At(f.history.Cursor()))
	f.sum += int64(v)
	f.history.Write(v)
}
