package median

import (
	"errors"
	"slices"
	"testing"

	"github.com/cwbudde/algo-sensorfilt/internal/testutil"
)

// window is an independent reference: the last n submitted values, oldest
// first, seeded by the warm-up fill.
type window struct {
	values []int
}

func newWindow(n, fill int) *window {
	return &window{values: testutil.DC(fill, n)}
}

func (w *window) push(v int) int {
	w.values = append(w.values[1:], v)
	sorted := slices.Clone(w.values)
	slices.Sort(sorted)
	return sorted[len(sorted)/2]
}

func requireRankSorted(t *testing.T, f *Filter) {
	t.Helper()

	n := f.Len()
	var seen [MaxLength]bool
	for i := range n {
		slot := int(f.rank[i])
		if slot >= n || seen[slot] {
			t.Fatalf("rank is not a permutation: %v", f.rank[:n])
		}
		seen[slot] = true

		if i > 0 && f.history.At(int(f.rank[i-1])) > f.history.At(slot) {
			t.Fatalf("rank not sorted at %d: %v", i, f.Sorted())
		}
	}
}

func TestEffectiveLength(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{name: "negative", requested: -7, want: 1},
		{name: "zero", requested: 0, want: 1},
		{name: "one", requested: 1, want: 1},
		{name: "even rounds up", requested: 4, want: 5},
		{name: "odd kept", requested: 9, want: 9},
		{name: "even below max", requested: MaxLength - 1, want: MaxLength},
		{name: "max", requested: MaxLength, want: MaxLength},
		{name: "above max", requested: MaxLength + 1, want: MaxLength},
		{name: "far above max", requested: 1000, want: MaxLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.requested, false)
			if f.Len() != tt.want {
				t.Fatalf("Len() = %d, want %d", f.Len(), tt.want)
			}

			if f.Len()%2 != 1 {
				t.Fatalf("Len() = %d is even", f.Len())
			}

			if f.Requested() != tt.requested {
				t.Fatalf("Requested() = %d, want %d", f.Requested(), tt.requested)
			}

			if f.Adjusted() != (tt.requested != tt.want) {
				t.Fatalf("Adjusted() = %v for %d -> %d", f.Adjusted(), tt.requested, tt.want)
			}
		})
	}
}

func TestEvenLengthsRoundUp(t *testing.T) {
	for k := 2; k < MaxLength; k += 2 {
		if got := EffectiveLength(k); got != k+1 {
			t.Fatalf("EffectiveLength(%d) = %d, want %d", k, got, k+1)
		}
	}
}

func TestBurnInFirstUpdate(t *testing.T) {
	f := New(3, true)

	if got := f.Update(7); got != 7 {
		t.Fatalf("first Update = %d, want 7", got)
	}

	testutil.RequireInts(t, f.History(), []int{7, 7, 7})

	if !f.Warmed() {
		t.Fatal("filter should be warmed after the first update")
	}
}

func TestColdFirstUpdate(t *testing.T) {
	f := New(5, false)

	if got := f.Update(42); got != 0 {
		t.Fatalf("first Update = %d, want 0", got)
	}

	testutil.RequireInts(t, f.History(), []int{0, 0, 0, 0, 0})
	requireRankSorted(t, f)
}

func TestBeforeWarmUp(t *testing.T) {
	f := New(5, true)

	if f.Warmed() {
		t.Fatal("new filter should not be warmed")
	}

	if f.Median() != 0 {
		t.Fatalf("Median() = %d, want 0", f.Median())
	}

	if f.LastIndex() != 4 {
		t.Fatalf("LastIndex() = %d, want 4", f.LastIndex())
	}
}

func TestColdStartScenario(t *testing.T) {
	f := New(5, false)
	f.Update(0) // warm-up fill

	var got []int
	for _, v := range []int{10, 20, 5, 100, 1} {
		got = append(got, f.Update(v))
	}

	testutil.RequireInts(t, got, []int{0, 0, 5, 10, 10})
	testutil.RequireInts(t, f.History(), []int{10, 20, 5, 100, 1})
	testutil.RequireInts(t, f.Sorted(), []int{1, 5, 10, 20, 100})

	if f.LastIndex() != 4 {
		t.Fatalf("LastIndex() = %d, want 4", f.LastIndex())
	}
}

func TestLastIndexTracksWrites(t *testing.T) {
	f := New(3, true)
	f.Update(1)

	for i := range 7 {
		f.Update(i)
		if want := i % 3; f.LastIndex() != want {
			t.Fatalf("update %d: LastIndex() = %d, want %d", i, f.LastIndex(), want)
		}

		if f.History()[f.LastIndex()] != i {
			t.Fatalf("update %d: slot %d holds %d", i, f.LastIndex(), f.History()[f.LastIndex()])
		}
	}
}

func TestMatchesReferenceMedian(t *testing.T) {
	signal := testutil.Add(
		testutil.Sine(37, 400, 1000, 2000),
		testutil.Spikes(testutil.Noise(7, 50, 2000), 13, 5, 3000),
	)

	for _, length := range []int{1, 3, 5, 7, 11, 15, 25} {
		for _, burnIn := range []bool{false, true} {
			f := New(length, burnIn)

			fill := 0
			if burnIn {
				fill = signal[0]
			}

			ref := newWindow(length, fill)

			if got := f.Update(signal[0]); got != fill {
				t.Fatalf("L=%d burnIn=%v: warm-up = %d, want %d", length, burnIn, got, fill)
			}

			for i, v := range signal[1:] {
				got := f.Update(v)
				want := ref.push(v)
				if got != want {
					t.Fatalf("L=%d burnIn=%v sample %d: got %d, want %d", length, burnIn, i+1, got, want)
				}

				requireRankSorted(t, f)
			}
		}
	}
}

func TestDuplicateValues(t *testing.T) {
	f := New(7, false)
	ref := newWindow(7, 0)
	f.Update(0)

	for i, v := range testutil.Noise(3, 2, 500) {
		if got, want := f.Update(v), ref.push(v); got != want {
			t.Fatalf("sample %d: got %d, want %d", i, got, want)
		}
		requireRankSorted(t, f)
	}
}

func TestOnlyWrittenSlotChangesRelativeOrder(t *testing.T) {
	f := New(9, true)
	f.Update(50)

	for _, v := range testutil.Noise(11, 100, 300) {
		before := f.rankSlots()
		f.Update(v)
		after := f.rankSlots()

		written := f.LastIndex()
		before = slices.DeleteFunc(before, func(s int) bool { return s == written })
		after = slices.DeleteFunc(after, func(s int) bool { return s == written })

		if !slices.Equal(before, after) {
			t.Fatalf("untouched slots reordered: before=%v after=%v", before, after)
		}
	}
}

func (f *Filter) rankSlots() []int {
	out := make([]int, f.Len())
	for i := range out {
		out[i] = int(f.rank[i])
	}
	return out
}

func TestConstantInputConverges(t *testing.T) {
	f := New(9, false)
	f.Update(0)

	for _, v := range testutil.Noise(5, 1000, 40) {
		f.Update(v)
	}

	var got int
	for range f.Len() {
		got = f.Update(-17)
	}

	if got != -17 {
		t.Fatalf("output after %d constant samples = %d, want -17", f.Len(), got)
	}
}

func TestRejectsShortImpulses(t *testing.T) {
	f := New(5, true)
	f.Update(100)

	in := []int{100, 900, 900, 100, 100, 100, 100, 900, 100, 100}
	for i, v := range in {
		if got := f.Update(v); got != 100 {
			t.Fatalf("sample %d: got %d, want 100", i, got)
		}
	}
}

func TestPreservesSteps(t *testing.T) {
	f := New(5, true)
	f.Update(0)

	var got []int
	for range 6 {
		got = append(got, f.Update(10))
	}

	testutil.RequireInts(t, got, []int{0, 0, 10, 10, 10, 10})
}

func TestUpdateF(t *testing.T) {
	f := New(3, true)
	if got := f.UpdateF(5); got != 5 {
		t.Fatalf("UpdateF = %v, want 5", got)
	}
}

func TestHistoryIsACopy(t *testing.T) {
	f := New(3, true)
	f.Update(4)

	h := f.History()
	h[0] = 99

	if f.History()[0] != 4 {
		t.Fatal("History() exposed internal storage")
	}

	dst := make([]int, 2)
	if n := f.HistoryInto(dst); n != 2 || dst[0] != 4 {
		t.Fatalf("HistoryInto = %d %v", n, dst)
	}
}

func TestUpdateDoesNotAllocate(t *testing.T) {
	f := New(MaxLength, true)
	f.Update(0)

	v := 0
	allocs := testing.AllocsPerRun(200, func() {
		v = (v*7 + 13) % 101
		f.Update(v)
	})

	if allocs != 0 {
		t.Fatalf("Update allocated %.1f times per call", allocs)
	}
}

func TestStateRoundTrip(t *testing.T) {
	signal := testutil.Add(testutil.Sine(19, 80, 0, 300), testutil.Noise(9, 30, 300))

	f := New(7, false)
	for _, v := range signal[:150] {
		f.Update(v)
	}

	clone := New(7, false)
	if err := clone.SetState(f.State()); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	if !clone.Warmed() {
		t.Fatal("restored filter should be warmed")
	}

	for i, v := range signal[150:] {
		if a, b := f.Update(v), clone.Update(v); a != b {
			t.Fatalf("sample %d: original %d, restored %d", i, a, b)
		}
	}
}

func TestSetStateEmpty(t *testing.T) {
	f := New(3, true)
	if err := f.SetState(State{}); err != nil {
		t.Fatalf("SetState(empty) on fresh filter error = %v", err)
	}

	if f.Warmed() {
		t.Fatal("empty state should leave the filter empty")
	}

	f.Update(1)
	if err := f.SetState(State{}); !errors.Is(err, ErrNotWarmed) {
		t.Fatalf("SetState(empty) on warmed filter error = %v, want ErrNotWarmed", err)
	}
}

func TestSetStateValidation(t *testing.T) {
	valid := State{Values: []int{3, 1, 2}, Rank: []int{1, 2, 0}, Cursor: 1, Warmed: true}

	tests := []struct {
		name   string
		mutate func(*State)
	}{
		{name: "short values", mutate: func(s *State) { s.Values = s.Values[:2] }},
		{name: "short rank", mutate: func(s *State) { s.Rank = s.Rank[:2] }},
		{name: "cursor", mutate: func(s *State) { s.Cursor = 3 }},
		{name: "negative cursor", mutate: func(s *State) { s.Cursor = -1 }},
		{name: "duplicate slot", mutate: func(s *State) { s.Rank = []int{1, 1, 0} }},
		{name: "slot out of range", mutate: func(s *State) { s.Rank = []int{1, 2, 5} }},
		{name: "unsorted", mutate: func(s *State) { s.Rank = []int{0, 1, 2} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{
				Values: slices.Clone(valid.Values),
				Rank:   slices.Clone(valid.Rank),
				Cursor: valid.Cursor,
				Warmed: true,
			}
			tt.mutate(&st)

			f := New(3, false)
			if err := f.SetState(st); err == nil {
				t.Fatal("expected error")
			}

			if f.Warmed() {
				t.Fatal("failed SetState modified the filter")
			}
		})
	}

	f := New(3, false)
	if err := f.SetState(valid); err != nil {
		t.Fatalf("SetState(valid) error = %v", err)
	}

	if f.Median() != 2 {
		t.Fatalf("Median() = %d, want 2", f.Median())
	}
}
