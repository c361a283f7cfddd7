// Package delay provides the fixed-capacity circular sample history shared by
// the windowed filters.
package delay

import (
	"fmt"

	"github.com/cwbudde/algo-sensorfilt/dsp/core"
)

// MaxLength is the largest number of samples a Line can hold.
const MaxLength = 25

// Line is a circular history of integer samples backed by a fixed array.
// The zero value is a one-sample line.
//
// Writes overwrite the oldest slot and advance the write cursor. A Line never
// allocates after construction, so filters embed it by value.
type Line struct {
	buffer   [MaxLength]int
	length   int
	writePos int
}

// MakeLine returns a zeroed line. length is clamped to [1, MaxLength].
func MakeLine(length int) Line {
	return Line{length: core.ClampInt(length, 1, MaxLength)}
}

// Len returns the number of live slots.
func (d *Line) Len() int {
	if d.length == 0 {
		return 1
	}
	return d.length
}

// Cursor returns the slot the next Write overwrites.
func (d *Line) Cursor() int {
	return d.writePos
}

// LastIndex returns the slot written by the most recent Write. Before any
// write it is the last slot.
func (d *Line) LastIndex() int {
	last := d.writePos - 1
	if last < 0 {
		last = d.Len() - 1
	}
	return last
}

// At returns the sample stored in slot i.
func (d *Line) At(i int) int {
	return d.buffer[i]
}

// Write stores sample at the cursor, advances the cursor and returns the slot
// that was written.
func (d *Line) Write(sample int) int {
	slot := d.writePos
	d.buffer[slot] = sample
	d.writePos++
	if d.writePos >= d.Len() {
		d.writePos = 0
	}
	return slot
}

// Fill sets every live slot to sample without moving the cursor.
func (d *Line) Fill(sample int) {
	core.Fill(d.buffer[:d.Len()], sample)
}

// Values returns the live slots in storage order. The slice aliases the line
// and must not be modified.
func (d *Line) Values() []int {
	return d.buffer[:d.Len()]
}

// CopyTo copies the live slots in storage order into dst and returns the
// number of copied samples.
func (d *Line) CopyTo(dst []int) int {
	return core.CopyInto(dst, d.Values())
}

// Restore replaces the contents and the cursor. values must hold exactly Len
// samples.
func (d *Line) Restore(values []int, cursor int) error {
	if len(values) != d.Len() {
		return fmt.Errorf("delay: restore needs %d samples: %d", d.Len(), len(values))
	}

	if cursor < 0 || cursor >= d.Len() {
		return fmt.Errorf("delay: cursor out of range [0,%d): %d", d.Len(), cursor)
	}

	copy(d.buffer[:], values)
	d.writePos = cursor
	return nil
}
