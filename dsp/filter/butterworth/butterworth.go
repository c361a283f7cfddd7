package butterworth

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sensorfilt/dsp/core"
)

// ErrNotWarmed is returned when an empty state would rewind a warmed filter.
var ErrNotWarmed = errors.New("butterworth: cannot restore an empty state into a warmed filter")

// Coefficients of one second-order section. The gain is applied to the input
// before the recurrence.
type Coefficients struct {
	Gain       float64
	A0, A1, A2 float64 // feedforward
	B1, B2     float64 // feedback
}

// State is the recurrence history: in[i-1], in[i-2], out[i-1], out[i-2], where
// inputs are already scaled by the gain.
type State struct {
	In1, In2   float64
	Out1, Out2 float64
}

// Section is a second-order Butterworth low-pass stage.
type Section struct {
	Coefficients

	state  State
	burnIn bool
	warmed bool
}

// Design returns the coefficients of section k of an order-n Butterworth
// low-pass with cut-off at sampleRate/fRatio.
func Design(fRatio float64, k, n int) (Coefficients, error) {
	if math.IsNaN(fRatio) || math.IsInf(fRatio, 0) || fRatio <= 2 {
		return Coefficients{}, fmt.Errorf("butterworth: fRatio must be finite and > 2: %v", fRatio)
	}

	if n < 2 || n%2 != 0 {
		return Coefficients{}, fmt.Errorf("butterworth: order must be even and >= 2: %d", n)
	}

	if k < 0 || k >= n/2 {
		return Coefficients{}, fmt.Errorf("butterworth: section index out of range [0,%d): %d", n/2, k)
	}

	wc := math.Tan(math.Pi / fRatio)
	wc2 := wc * wc
	c := 2 * math.Cos(float64(2*k+1)*math.Pi/float64(2*n)) * wc
	ck := 1 + c + wc2

	return Coefficients{
		Gain: wc2 / ck,
		A0:   1,
		A1:   2,
		A2:   1,
		B1:   2 * (wc2 - 1) / ck,
		B2:   (1 - c + wc2) / ck,
	}, nil
}

// New returns a stand-alone second-order filter.
func New(fRatio float64, burnIn bool) (*Section, error) {
	return NewSection(fRatio, 0, 2, burnIn)
}

// NewSection returns section k of an order-n filter. Chain sections
// k = 0 .. n/2-1 to build the full filter, or use [NewCascade].
//
// With burnIn set the first sample initialises the history so that the output
// equals the input from the first call on. Otherwise the filter starts as if
// it had seen zeros.
func NewSection(fRatio float64, k, n int, burnIn bool) (*Section, error) {
	c, err := Design(fRatio, k, n)
	if err != nil {
		return nil, err
	}

	return &Section{Coefficients: c, burnIn: burnIn}, nil
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	in0 := s.Gain * x

	var out float64

	switch {
	case s.warmed:
		out = s.A0*in0 + s.A1*s.state.In1 + s.A2*s.state.In2 -
			s.B1*s.state.Out1 - s.B2*s.state.Out2
	case s.burnIn:
		s.warmed = true
		s.state = State{In1: in0, In2: in0, Out1: x, Out2: x}

		return x
	default:
		s.warmed = true
		out = 0
	}

	s.state.In2 = s.state.In1
	s.state.In1 = in0
	s.state.Out2 = s.state.Out1
	s.state.Out1 = out

	return out
}

// UpdateF submits one sample and returns the filtered value.
func (s *Section) UpdateF(v int) float64 {
	return s.ProcessSample(float64(v))
}

// Update submits one sample and returns the filtered value rounded to the
// nearest integer.
func (s *Section) Update(v int) int {
	return core.RoundToInt(s.ProcessSample(float64(v)))
}

// Warmed reports whether the section has received a sample or a state.
func (s *Section) Warmed() bool { return s.warmed }

// State returns the recurrence history.
func (s *Section) State() State { return s.state }

// SetState restores the recurrence history and marks the section as warmed,
// so burn-in does not overwrite it.
func (s *Section) SetState(st State) error {
	for _, v := range [...]float64{st.In1, st.In2, st.Out1, st.Out2} {
		if !core.IsFinite(v) {
			return fmt.Errorf("butterworth: state must be finite: %+v", st)
		}
	}

	s.state = st
	s.warmed = true

	return nil
}

// MagnitudeSquared returns |H(f)|^2 of the section, gain included, at freqHz
// for the given sample rate.
func (c *Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := c.Gain*c.A0, c.Gain*c.A1, c.Gain*c.A2
	a1, a2 := c.B1, c.B2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw
	return num / den
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c *Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}
