package median

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-sensorfilt/dsp/delay"
)

// MaxLength is the largest supported window length.
const MaxLength = delay.MaxLength

// Rank entries are stored as bytes.
const _ = uint8(MaxLength - 1)

// ErrNotWarmed is returned by SetState when an empty state would rewind a
// filter that has already received samples.
var ErrNotWarmed = errors.New("median: cannot restore an empty state into a warmed filter")

// State is a snapshot of the filter's window for warm restarts.
type State struct {
	Values []int // raw circular buffer, storage order
	Rank   []int // slot indices in ascending value order
	Cursor int   // next slot to overwrite
	Warmed bool
}

// Filter is a sliding-window median filter over the last Len() samples.
type Filter struct {
	history   delay.Line
	rank      [MaxLength]uint8
	requested int
	burnIn    bool
	warmed    bool
}

// New returns a median filter over length samples.
//
// length is clamped to [1, MaxLength] and even lengths are rounded up to the
// next odd value (down at MaxLength). When burnIn is set the first sample
// fills the whole window, otherwise the window starts as zeros.
func New(length int, burnIn bool) *Filter {
	return &Filter{
		history:   delay.MakeLine(EffectiveLength(length)),
		requested: length,
		burnIn:    burnIn,
	}
}

// EffectiveLength returns the window length New uses for a requested length.
func EffectiveLength(length int) int {
	n := max(1, min(length, MaxLength))
	if n%2 == 0 {
		if n == MaxLength {
			n--
		} else {
			n++
		}
	}
	return n
}

// Len returns the effective window length.
func (f *Filter) Len() int { return f.history.Len() }

// Requested returns the window length passed to New.
func (f *Filter) Requested() int { return f.requested }

// Adjusted reports whether the requested length was clamped or rounded.
func (f *Filter) Adjusted() bool { return f.requested != f.Len() }

// BurnIn reports whether the first sample fills the window.
func (f *Filter) BurnIn() bool { return f.burnIn }

// Warmed reports whether the filter has received its first sample.
func (f *Filter) Warmed() bool { return f.warmed }

// Update submits one sample and returns the median of the current window.
func (f *Filter) Update(v int) int {
	if !f.warmed {
		return f.warmUp(v)
	}

	slot := f.history.Write(v)
	pos := f.rankOf(slot)

	if !f.shiftDown(pos, v) {
		f.shiftUp(pos, v)
	}

	return f.Median()
}

// UpdateF is Update with a floating-point result.
func (f *Filter) UpdateF(v int) float64 {
	return float64(f.Update(v))
}

// Median returns the current median without submitting a sample.
func (f *Filter) Median() int {
	if !f.warmed {
		return 0
	}
	return f.history.At(int(f.rank[f.Len()/2]))
}

// History returns a copy of the raw circular buffer in storage order.
func (f *Filter) History() []int {
	out := make([]int, f.Len())
	f.history.CopyTo(out)
	return out
}

// HistoryInto copies the raw circular buffer into dst and returns the number
// of copied samples.
func (f *Filter) HistoryInto(dst []int) int {
	return f.history.CopyTo(dst)
}

// LastIndex returns the buffer slot written by the most recent Update.
func (f *Filter) LastIndex() int {
	return f.history.LastIndex()
}

// Sorted returns the window contents in rank order.
func (f *Filter) Sorted() []int {
	n := f.Len()
	out := make([]int, n)
	for i := range n {
		out[i] = f.history.At(int(f.rank[i]))
	}
	return out
}

// State returns a copy of the current window state.
func (f *Filter) State() State {
	n := f.Len()
	st := State{
		Values: f.History(),
		Rank:   make([]int, n),
		Cursor: f.history.Cursor(),
		Warmed: f.warmed,
	}
	for i := range n {
		st.Rank[i] = int(f.rank[i])
	}
	return st
}

// SetState restores a snapshot taken from a filter with the same window
// length. The rank must be a permutation that orders Values; the filter is
// left untouched on error.
func (f *Filter) SetState(st State) error {
	if !st.Warmed {
		if f.warmed {
			return ErrNotWarmed
		}
		return nil
	}

	n := f.Len()
	if len(st.Values) != n || len(st.Rank) != n {
		return fmt.Errorf("median: state length mismatch: values=%d rank=%d, want %d",
			len(st.Values), len(st.Rank), n)
	}

	if st.Cursor < 0 || st.Cursor >= n {
		return fmt.Errorf("median: cursor out of range [0,%d): %d", n, st.Cursor)
	}

	var seen [MaxLength]bool
	for i, slot := range st.Rank {
		if slot < 0 || slot >= n || seen[slot] {
			return fmt.Errorf("median: rank is not a permutation at position %d: %d", i, slot)
		}
		seen[slot] = true

		if i > 0 && st.Values[st.Rank[i-1]] > st.Values[slot] {
			return fmt.Errorf("median: rank is not sorted at position %d", i)
		}
	}

	if err := f.history.Restore(st.Values, st.Cursor); err != nil {
		return err
	}

	for i, slot := range st.Rank {
		f.rank[i] = uint8(slot)
	}
	f.warmed = true

	return nil
}

// warmUp fills the window on the first sample. Every slot holds the same
// value, so the identity permutation is a valid rank.
func (f *Filter) warmUp(v int) int {
	f.warmed = true

	fill := 0
	if f.burnIn {
		fill = v
	}
	f.history.Fill(fill)

	for i := range f.Len() {
		f.rank[i] = uint8(i)
	}

	return fill
}

// rankOf returns the rank position that holds slot.
func (f *Filter) rankOf(slot int) int {
	s := uint8(slot)
	for i := range f.Len() {
		if f.rank[i] == s {
			return i
		}
	}
	panic("median: slot missing from rank index")
}

// shiftDown moves the entry at pos towards lower ranks while its lower
// neighbour holds a larger value. It reports whether the entry moved.
func (f *Filter) shiftDown(pos, v int) bool {
	moved := false
	for i := pos; i > 0 && v < f.history.At(int(f.rank[i-1])); i-- {
		f.rank[i], f.rank[i-1] = f.rank[i-1], f.rank[i]
		moved = true
	}
	return moved
}

// shiftUp moves the entry at pos towards higher ranks while its upper
// neighbour holds a smaller value.
func (f *Filter) shiftUp(pos, v int) {
	last := f.Len() - 1
	for i := pos; i < last && v > f.history.At(int(f.rank[i+1])); i++ {
		f.rank[i], f.rank[i+1] = f.rank[i+1], f.rank[i]
	}
}
