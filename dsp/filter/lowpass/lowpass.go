package lowpass

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sensorfilt/dsp/core"
)

// ErrNotWarmed is returned by SetState when an unwarmed state would rewind a
// filter that has already received samples.
var ErrNotWarmed = errors.New("lowpass: cannot restore an unwarmed state into a warmed filter")

// State is a snapshot of the filter for warm restarts.
type State struct {
	Output float64
	Warmed bool
}

// Filter is a single-pole exponential smoother.
type Filter struct {
	alpha  float64
	out    float64
	burnIn bool
	warmed bool
}

// New returns a low-pass filter with smoothing factor alpha in [0, 1].
// When burnIn is set the first output equals the first sample; otherwise the
// output starts from zero.
func New(alpha float64, burnIn bool) (*Filter, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}

	return &Filter{alpha: alpha, burnIn: burnIn}, nil
}

// AlphaFromRatio returns the smoothing factor for fRatio, the ratio of the
// sample rate to the desired corner frequency.
func AlphaFromRatio(fRatio float64) float64 {
	return 2 * math.Pi / (fRatio + 2*math.Pi)
}

// Alpha returns the smoothing factor.
func (f *Filter) Alpha() float64 { return f.alpha }

// SetAlpha changes the smoothing factor without touching the output history.
func (f *Filter) SetAlpha(alpha float64) error {
	if err := validateAlpha(alpha); err != nil {
		return err
	}

	f.alpha = alpha
	return nil
}

// UpdateF submits one sample and returns the filtered value.
func (f *Filter) UpdateF(v int) float64 {
	x := float64(v)
	if !f.warmed {
		f.warmed = true
		if f.burnIn {
			f.out = x
		}
	}

	f.out += f.alpha * (x - f.out)
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
	p := 1 - f.alpha
	return f.alpha * f.alpha / (1 - 2*p*cw + p*p)
}

// State returns the current filter state.
func (f *Filter) State() State {
	return State{Output: f.out, Warmed: f.warmed}
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
		return fmt.Errorf("lowpass: state output must be finite: %v", st.Output)
	}

	f.out = st.Output
	f.warmed = true
	return nil
}

func validateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return fmt.Errorf("lowpass: alpha must be in [0, 1]: %v", alpha)
	}
	return nil
}
