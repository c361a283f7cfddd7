package highpass

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sensorfilt/dsp/core"
)

// ErrNotWarmed is returned by SetState when an unwarmed state would rewind a
// filter that has already received samples.
var ErrNotWarmed = errors.New("highpass: cannot restore an unwarmed state into a warmed filter")

// State is a snapshot of the filter for warm restarts.
type State struct {
	Output    float64
	PrevInput int
	Warmed    bool
}

// Filter implements out = alpha * (out + v - prev).
type Filter struct {
	alpha  float64
	out    float64
	prevIn int
	burnIn bool
	warmed bool
}

// New returns a high-pass filter with coefficient alpha in [0, 1].
//
// With burnIn set, the first sample is taken as the previous input so a
// constant signal produces zero from the start. Without it the filter behaves
// as if it had seen zeros before, and a step at switch-on passes through.
func New(alpha float64, burnIn bool) (*Filter, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}

	return &Filter{alpha: alpha, burnIn: burnIn}, nil
}

// AlphaFromRatio returns the coefficient for fRatio, the ratio of the sample
// rate to the desired corner frequency.
func AlphaFromRatio(fRatio float64) float64 {
	return fRatio / (2*math.Pi + fRatio)
}

// Alpha returns the filter coefficient.
func (f *Filter) Alpha() float64 { return f.alpha }

// SetAlpha changes the coefficient without touching the history.
func (f *Filter) SetAlpha(alpha float64) error {
	if err := validateAlpha(alpha); err != nil {
		return err
	}

	f.alpha = alpha
	return nil
}

// UpdateF submits one sample and returns the filtered value.
func (f *Filter) UpdateF(v int) float64 {
	if !f.warmed {
		f.warmed = true
		if f.burnIn {
			f.out = 0
			f.prevIn = v
		}
	}

	f.out = f.alpha * (f.out + float64(v-f.prevIn))
	f.prevIn = v

	return f.out
}

// Update submits one sample and returns the filtered value rounded to the
// nearest integer.
func (f *Filter) Update(v int) int {
	return core.RoundToInt(f.UpdateF(v))
}

// MagnitudeSquared returns |H(f)|^2 at freqHz for the given sample rate.
func (f *Filter) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := math.Cos(2 * math.Pi * freqHz / sampleRate)
	a := f.alpha
	return a * a * (2 - 2*cw) / (1 - 2*a*cw + a*a)
}

// State returns the current filter state.
func (f *Filter) State() State {
	return State{Output: f.out, PrevInput: f.prevIn, Warmed: f.warmed}
}

// SetState restores a snapshot taken with State. An unwarmed state is a no-op
// on an unwarmed filter and fails with ErrNotWarmed otherwise.
func (f *Filter) SetState(st State) error {
	if !st.Warmed {
		if f.warmed {
			return ErrNotWarmed
		}
		return nil
	}

	if !core.IsFinite(st.Output) {
		return fmt.Errorf("highpass: state output must be finite: %v", st.Output)
	}

	f.out = st.Output
	f.prevIn = st.PrevInput
	f.warmed = true

	return nil
}

func validateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return fmt.Errorf("highpass: alpha must be in [0, 1]: %v", alpha)
	}
	return nil
}
