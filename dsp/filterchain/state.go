package filterchain

import (
	"errors"

	"github.com/cwbudde/algo-sensorfilt/dsp/filter/butterworth"
	"github.com/cwbudde/algo-sensorfilt/dsp/filter/highpass"
	"github.com/cwbudde/algo-sensorfilt/dsp/filter/lowpass"
	"github.com/cwbudde/algo-sensorfilt/dsp/filter/median"
	"github.com/cwbudde/algo-sensorfilt/dsp/filter/movavg"
)

// ErrStateMismatch is returned when a snapshot does not fit the chain layout.
var ErrStateMismatch = errors.New("state does not match chain layout")

// State is a snapshot of every stage in chain order.
type State struct {
	Stages []StageState `yaml:"stages"`
}

// StageState is the snapshot of one stage. Exactly one of the filter fields is
// set, matching Type.
type StageState struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`

	Median      *median.State       `yaml:"median,omitempty"`
	MovAvg      *movavg.State       `yaml:"movavg,omitempty"`
	LowPass     *lowpass.State      `yaml:"lowpass,omitempty"`
	HighPass    *highpass.State     `yaml:"highpass,omitempty"`
	Butterworth []butterworth.State `yaml:"butterworth,omitempty"`
}
