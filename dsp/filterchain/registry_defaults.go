package filterchain

import (
	"fmt"

	"github.com/cwbudde/algo-sensorfilt/dsp/filter/butterworth"
	"github.com/cwbudde/algo-sensorfilt/dsp/filter/highpass"
	"github.com/cwbudde/algo-sensorfilt/dsp/filter/lowpass"
	"github.com/cwbudde/algo-sensorfilt/dsp/filter/median"
	"github.com/cwbudde/algo-sensorfilt/dsp/filter/movavg"
)

// Built-in filter type names.
const (
	TypeMedian      = "median"
	TypeMovAvg      = "movavg"
	TypeLowPass     = "lowpass"
	TypeHighPass    = "highpass"
	TypeButterworth = "butterworth"
)

// Default parameters for the built-in types.
const (
	DefaultMedianLength = 5
	DefaultMovAvgLength = 8
	DefaultOrder        = 2
)

// DefaultRegistry returns a Registry pre-populated with the built-in filters.
//
// Parameters by type:
//
//	median       length
//	movavg       length
//	lowpass      alpha, or ratio / cutoff_hz
//	highpass     alpha, or ratio / cutoff_hz
//	butterworth  ratio / cutoff_hz, order
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(TypeMedian, func(p Params) (Stage, error) {
		return &medianStage{f: median.New(p.GetInt("length", DefaultMedianLength), p.BurnIn)}, nil
	})
	r.MustRegister(TypeMovAvg, func(p Params) (Stage, error) {
		return &movAvgStage{f: movavg.New(p.GetInt("length", DefaultMovAvgLength), p.BurnIn)}, nil
	})
	r.MustRegister(TypeLowPass, func(p Params) (Stage, error) {
		alpha, err := stageAlpha(p, lowpass.AlphaFromRatio)
		if err != nil {
			return nil, err
		}

		f, err := lowpass.New(alpha, p.BurnIn)
		if err != nil {
			return nil, err
		}

		return &lowPassStage{f: f}, nil
	})
	r.MustRegister(TypeHighPass, func(p Params) (Stage, error) {
		alpha, err := stageAlpha(p, highpass.AlphaFromRatio)
		if err != nil {
			return nil, err
		}

		f, err := highpass.New(alpha, p.BurnIn)
		if err != nil {
			return nil, err
		}

		return &highPassStage{f: f}, nil
	})
	r.MustRegister(TypeButterworth, func(p Params) (Stage, error) {
		ratio, err := p.Ratio()
		if err != nil {
			return nil, err
		}

		f, err := butterworth.NewCascade(ratio, p.GetInt("order", DefaultOrder), p.BurnIn)
		if err != nil {
			return nil, err
		}

		return &butterworthStage{f: f}, nil
	})

	return r
}

func stageAlpha(p Params, fromRatio func(float64) float64) (float64, error) {
	if p.Has("alpha") {
		return p.Num["alpha"], nil
	}

	ratio, err := p.Ratio()
	if err != nil {
		return 0, fmt.Errorf("need alpha: %w", err)
	}

	return fromRatio(ratio), nil
}

func mismatch(want string) error {
	return fmt.Errorf("%w: missing %s state", ErrStateMismatch, want)
}

type medianStage struct{ f *median.Filter }

func (s *medianStage) Update(v int) int       { return s.f.Update(v) }
func (s *medianStage) UpdateF(v int) float64  { return s.f.UpdateF(v) }
func (s *medianStage) Adjusted() bool         { return s.f.Adjusted() }
func (s *medianStage) Filter() *median.Filter { return s.f }

func (s *medianStage) State() StageState {
	st := s.f.State()
	return StageState{Median: &st}
}

func (s *medianStage) SetState(st StageState) error {
	if st.Median == nil {
		return mismatch(TypeMedian)
	}
	return s.f.SetState(*st.Median)
}

type movAvgStage struct{ f *movavg.Filter }

func (s *movAvgStage) Update(v int) int       { return s.f.Update(v) }
func (s *movAvgStage) UpdateF(v int) float64  { return s.f.UpdateF(v) }
func (s *movAvgStage) Adjusted() bool         { return s.f.Adjusted() }
func (s *movAvgStage) Filter() *movavg.Filter { return s.f }

func (s *movAvgStage) State() StageState {
	st := s.f.State()
	return StageState{MovAvg: &st}
}

func (s *movAvgStage) SetState(st StageState) error {
	if st.MovAvg == nil {
		return mismatch(TypeMovAvg)
	}
	return s.f.SetState(*st.MovAvg)
}

type lowPassStage struct{ f *lowpass.Filter }

func (s *lowPassStage) Update(v int) int        { return s.f.Update(v) }
func (s *lowPassStage) UpdateF(v int) float64   { return s.f.UpdateF(v) }
func (s *lowPassStage) Filter() *lowpass.Filter { return s.f }

func (s *lowPassStage) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	return s.f.MagnitudeSquared(freqHz, sampleRate)
}

func (s *lowPassStage) State() StageState {
	st := s.f.State()
	return StageState{LowPass: &st}
}

func (s *lowPassStage) SetState(st StageState) error {
	if st.LowPass == nil {
		return mismatch(TypeLowPass)
	}
	return s.f.SetState(*st.LowPass)
}

type highPassStage struct{ f *highpass.Filter }

func (s *highPassStage) Update(v int) int         { return s.f.Update(v) }
func (s *highPassStage) UpdateF(v int) float64    { return s.f.UpdateF(v) }
func (s *highPassStage) Filter() *highpass.Filter { return s.f }

func (s *highPassStage) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	return s.f.MagnitudeSquared(freqHz, sampleRate)
}

func (s *highPassStage) State() StageState {
	st := s.f.State()
	return StageState{HighPass: &st}
}

func (s *highPassStage) SetState(st StageState) error {
	if st.HighPass == nil {
		return mismatch(TypeHighPass)
	}
	return s.f.SetState(*st.HighPass)
}

type butterworthStage struct{ f *butterworth.Cascade }

func (s *butterworthStage) Update(v int) int             { return s.f.Update(v) }
func (s *butterworthStage) UpdateF(v int) float64        { return s.f.UpdateF(v) }
func (s *butterworthStage) Filter() *butterworth.Cascade { return s.f }

func (s *butterworthStage) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	return s.f.MagnitudeSquared(freqHz, sampleRate)
}

// An unwarmed cascade has no history worth saving.
func (s *butterworthStage) State() StageState {
	if !s.f.Warmed() {
		return StageState{}
	}
	return StageState{Butterworth: s.f.State()}
}

func (s *butterworthStage) SetState(st StageState) error {
	if st.Butterworth == nil {
		if st.Median != nil || st.MovAvg != nil || st.LowPass != nil || st.HighPass != nil {
			return mismatch(TypeButterworth)
		}
		if s.f.Warmed() {
			return butterworth.ErrNotWarmed
		}
		return nil
	}
	return s.f.SetState(st.Butterworth)
}
