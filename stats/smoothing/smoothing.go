// Package smoothing summarises how much a filter changed a sample stream.
package smoothing

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-sensorfilt/dsp/core"
)

// ErrLength is returned when the raw and filtered sequences are empty or of
// different lengths.
var ErrLength = errors.New("smoothing: raw and filtered must be non-empty and equal length")

// Report compares a raw sequence with its filtered version.
//
//nolint:revive
type Report struct {
	Length int

	ResidualRMS   float64 // rms(filtered - raw)
	PeakDeviation float64 // max |filtered - raw|
	PeakPos       int
	MeanShift     float64 // mean(filtered) - mean(raw)

	RawRoughness      float64 // rms of first differences of raw
	FilteredRoughness float64 // rms of first differences of filtered
	NoiseReduction_dB float64 // 20*log10(RawRoughness / FilteredRoughness)

	// SpikesRejected counts samples the filter moved by more than the spike
	// threshold.
	SpikesRejected int
}

// Compare builds a Report. A spikeThreshold <= 0 disables spike counting.
func Compare(raw []int, filtered []float64, spikeThreshold float64) (Report, error) {
	n := len(raw)
	if n == 0 || n != len(filtered) {
		return Report{}, fmt.Errorf("%w: %d vs %d", ErrLength, len(raw), len(filtered))
	}

	rawF := make([]float64, n)
	for i, v := range raw {
		rawF[i] = float64(v)
	}

	residual := make([]float64, n)
	vecmath.ScaleBlock(residual, rawF, -1)
	vecmath.AddBlockInPlace(residual, filtered)

	r := Report{Length: n}

	var rawSum, filtSum float64
	for i, d := range residual {
		rawSum += rawF[i]
		filtSum += filtered[i]

		if a := math.Abs(d); a > r.PeakDeviation {
			r.PeakDeviation = a
			r.PeakPos = i
		}

		if spikeThreshold > 0 && math.Abs(d) > spikeThreshold {
			r.SpikesRejected++
		}
	}

	r.ResidualRMS = rms(residual)
	r.MeanShift = (filtSum - rawSum) / float64(n)
	r.RawRoughness = rms(diff(rawF))
	r.FilteredRoughness = rms(diff(filtered))
	r.NoiseReduction_dB = ratioTodB(r.RawRoughness, r.FilteredRoughness)

	return r, nil
}

// rms returns the root mean square of x, or 0 for an empty slice.
func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	sq := make([]float64, len(x))
	vecmath.MulBlock(sq, x, x)

	var sum float64
	for _, v := range sq {
		sum += v
	}

	return math.Sqrt(sum / float64(len(x)))
}

func diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}

	out := make([]float64, len(x)-1)
	for i := range out {
		out[i] = x[i+1] - x[i]
	}
	return out
}

// ratioTodB returns 20*log10(num/den), +Inf when only den is zero and 0 when
// both are.
func ratioTodB(num, den float64) float64 {
	switch {
	case num == 0 && den == 0:
		return 0
	case den == 0:
		return math.Inf(1)
	case num == 0:
		return math.Inf(-1)
	}

	return core.LinearToDB(num / den)
}
