package filterchain

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-sensorfilt/dsp/core"
)

var errNoRatio = errors.New("need either ratio or cutoff_hz with a sample rate")

// Params holds the parameters of a single chain stage.
type Params struct {
	ID         string
	Type       string
	BurnIn     bool
	SampleRate float64
	Num        map[string]float64
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// GetInt is GetNum rounded to the nearest integer, saturating at the int
// range.
func (p Params) GetInt(key string, def int) int {
	if !p.Has(key) {
		return def
	}
	return core.RoundToInt(p.Num[key])
}

// Has reports whether key is set to a finite value.
func (p Params) Has(key string) bool {
	v, ok := p.Num[key]
	return ok && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Ratio returns the ratio of the sample rate to the stage's corner frequency.
// An explicit "ratio" wins over "cutoff_hz".
func (p Params) Ratio() (float64, error) {
	if p.Has("ratio") {
		return p.Num["ratio"], nil
	}

	cutoff := p.GetNum("cutoff_hz", 0)
	if cutoff <= 0 || p.SampleRate <= 0 {
		return 0, errNoRatio
	}

	return p.SampleRate / cutoff, nil
}
