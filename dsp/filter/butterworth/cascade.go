package butterworth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sensorfilt/dsp/core"
)

// Cascade is an even-order Butterworth low-pass built from second-order
// sections processed in series.
type Cascade struct {
	sections []*Section
}

// NewCascade returns an order-n low-pass with cut-off at sampleRate/fRatio.
func NewCascade(fRatio float64, order int, burnIn bool) (*Cascade, error) {
	if order < 2 || order%2 != 0 {
		return nil, fmt.Errorf("butterworth: order must be even and >= 2: %d", order)
	}

	c := &Cascade{sections: make([]*Section, order/2)}
	for k := range c.sections {
		s, err := NewSection(fRatio, k, order, burnIn)
		if err != nil {
			return nil, err
		}
		c.sections[k] = s
	}

	return c, nil
}

// Order returns the overall filter order.
func (c *Cascade) Order() int { return 2 * len(c.sections) }

// Section returns section k.
func (c *Cascade) Section(k int) *Section { return c.sections[k] }

// ProcessSample filters one input sample through all sections.
func (c *Cascade) ProcessSample(x float64) float64 {
	for _, s := range c.sections {
		x = s.ProcessSample(x)
	}
	return x
}

// UpdateF submits one sample and returns the filtered value.
func (c *Cascade) UpdateF(v int) float64 {
	return c.ProcessSample(float64(v))
}

// Update submits one sample and returns the filtered value rounded to the
// nearest integer.
func (c *Cascade) Update(v int) int {
	return core.RoundToInt(c.ProcessSample(float64(v)))
}

// Warmed reports whether the cascade has received a sample or a state.
func (c *Cascade) Warmed() bool { return c.sections[0].Warmed() }

// State returns the history of every section in order.
func (c *Cascade) State() []State {
	out := make([]State, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.State()
	}
	return out
}

// SetState restores the history of every section. The cascade is left
// untouched if st does not match its layout.
func (c *Cascade) SetState(st []State) error {
	if len(st) != len(c.sections) {
		return fmt.Errorf("butterworth: state has %d sections, cascade has %d", len(st), len(c.sections))
	}

	for i, v := range st {
		for _, x := range [...]float64{v.In1, v.In2, v.Out1, v.Out2} {
			if !core.IsFinite(x) {
				return fmt.Errorf("butterworth: section %d state must be finite: %+v", i, v)
			}
		}
	}

	for i, s := range c.sections {
		if err := s.SetState(st[i]); err != nil {
			return fmt.Errorf("butterworth: section %d: %w", i, err)
		}
	}

	return nil
}

// MagnitudeSquared returns the product of the section responses.
func (c *Cascade) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	m := 1.0
	for _, s := range c.sections {
		m *= s.MagnitudeSquared(freqHz, sampleRate)
	}
	return m
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c *Cascade) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}
