package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// DefaultAmplitude is the test signal height used when none is given.
const DefaultAmplitude = 1 << 16

// DefaultFFTSize is the analysis length used when none is given.
const DefaultFFTSize = 1024

var errFFTSize = errors.New("response: FFT size must be a power of two >= 2")

// Filter is the part of the filter contract the measurements need.
type Filter interface {
	UpdateF(v int) float64
}

// Impulse returns n samples of the impulse response of f, normalised by
// amplitude. An amplitude <= 0 selects DefaultAmplitude.
func Impulse(f Filter, n, amplitude int) []float64 {
	if n <= 0 {
		return nil
	}

	amplitude = pick(amplitude)
	scale := 1 / float64(amplitude)

	f.UpdateF(0)

	out := make([]float64, n)
	out[0] = f.UpdateF(amplitude) * scale
	for i := 1; i < n; i++ {
		out[i] = f.UpdateF(0) * scale
	}
	return out
}

// Step returns n samples of the step response of f, normalised by amplitude.
// An amplitude <= 0 selects DefaultAmplitude.
func Step(f Filter, n, amplitude int) []float64 {
	if n <= 0 {
		return nil
	}

	amplitude = pick(amplitude)
	scale := 1 / float64(amplitude)

	f.UpdateF(0)

	out := make([]float64, n)
	for i := range out {
		out[i] = f.UpdateF(amplitude) * scale
	}
	return out
}

// Analyzer computes magnitude spectra from impulse responses.
type Analyzer struct {
	// FFTSize is the impulse response length and transform size. Zero
	// selects DefaultFFTSize.
	FFTSize int

	// Amplitude of the test impulse. Zero selects DefaultAmplitude.
	Amplitude int
}

// Magnitude returns |H[k]| for bins k = 0 .. FFTSize/2 of the impulse
// response of f. Bin k lies at k*sampleRate/FFTSize.
func (a Analyzer) Magnitude(f Filter) ([]float64, error) {
	size := a.FFTSize
	if size == 0 {
		size = DefaultFFTSize
	}

	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", errFFTSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	ir := Impulse(f, size, a.Amplitude)

	src := make([]complex128, size)
	for i, v := range ir {
		src[i] = complex(v, 0)
	}

	freq := make([]complex128, size)
	if err := plan.Forward(freq, src); err != nil {
		return nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(freq[k])
		im[k] = imag(freq[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

// CutoffBin returns the fractional bin at which mag first falls below
// 1/sqrt(2) of its DC value, interpolating linearly between bins. ok is false
// if it never does or the DC value is zero.
func CutoffBin(mag []float64) (bin float64, ok bool) {
	if len(mag) < 2 || mag[0] <= 0 {
		return 0, false
	}

	threshold := mag[0] / math.Sqrt2
	for k := 1; k < len(mag); k++ {
		if mag[k] >= threshold {
			continue
		}

		prev := mag[k-1]
		return float64(k-1) + (prev-threshold)/(prev-mag[k]), true
	}

	return 0, false
}

// CutoffFrequency converts the -3 dB bin of a magnitude spectrum from
// Analyzer.Magnitude into Hz.
func CutoffFrequency(mag []float64, sampleRate float64) (float64, bool) {
	bin, ok := CutoffBin(mag)
	if !ok {
		return 0, false
	}

	fftSize := 2 * (len(mag) - 1)
	return bin * sampleRate / float64(fftSize), true
}

// CutoffRatio returns the ratio of sample rate to the -3 dB frequency, the
// fRatio parameter the filters are designed with.
func CutoffRatio(mag []float64) (float64, bool) {
	bin, ok := CutoffBin(mag)
	if !ok || bin == 0 {
		return 0, false
	}

	return float64(2*(len(mag)-1)) / bin, true
}

func pick(amplitude int) int {
	if amplitude <= 0 {
		return DefaultAmplitude
	}
	return amplitude
}
