package response

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sensorfilt/dsp/filter/butterworth"
	"github.com/cwbudde/algo-sensorfilt/dsp/filter/lowpass"
	"github.com/cwbudde/algo-sensorfilt/dsp/filter/median"
	"github.com/cwbudde/algo-sensorfilt/dsp/filter/movavg"
	"github.com/cwbudde/algo-sensorfilt/internal/testutil"
)

func TestImpulseMovingAverage(t *testing.T) {
	for _, burnIn := range []bool{false, true} {
		got := Impulse(movavg.New(4, burnIn), 6, 0)
		testutil.RequireSliceNearlyEqual(t, got, []float64{0.25, 0.25, 0.25, 0.25, 0, 0}, 0)
	}
}

func TestImpulseMedianRejects(t *testing.T) {
	got := Impulse(median.New(3, true), 8, 1000)
	testutil.RequireSliceNearlyEqual(t, got, make([]float64, 8), 0)
}

func TestStepLowPass(t *testing.T) {
	f, err := lowpass.New(0.5, true)
	if err != nil {
		t.Fatal(err)
	}

	got := Step(f, 3, 0)
	testutil.RequireSliceNearlyEqual(t, got, []float64{0.5, 0.75, 0.875}, 0)
}

func TestEmptyLength(t *testing.T) {
	f := movavg.New(2, false)

	if Impulse(f, 0, 1) != nil || Step(f, -1, 1) != nil {
		t.Fatal("non-positive length should return nil")
	}
}

func TestMagnitudeMatchesButterworth(t *testing.T) {
	const size = 1024

	for _, burnIn := range []bool{false, true} {
		c, err := butterworth.NewCascade(10, 4, burnIn)
		if err != nil {
			t.Fatal(err)
		}

		mag, err := Analyzer{FFTSize: size}.Magnitude(c)
		if err != nil {
			t.Fatalf("Magnitude() error = %v", err)
		}

		if len(mag) != size/2+1 {
			t.Fatalf("len(mag) = %d, want %d", len(mag), size/2+1)
		}

		for k, got := range mag {
			want := math.Sqrt(c.MagnitudeSquared(float64(k), size))
			if math.Abs(got-want) > 1e-7 {
				t.Fatalf("bin %d: got %v, want %v", k, got, want)
			}
		}
	}
}

func TestCutoff(t *testing.T) {
	c, _ := butterworth.NewCascade(10, 2, false)

	mag, err := Analyzer{FFTSize: 2048}.Magnitude(c)
	if err != nil {
		t.Fatal(err)
	}

	hz, ok := CutoffFrequency(mag, 1000)
	if !ok {
		t.Fatal("no cut-off found")
	}
	testutil.RequireNearlyEqual(t, "cutoff Hz", hz, 100, 0.5)

	ratio, ok := CutoffRatio(mag)
	if !ok {
		t.Fatal("no cut-off ratio")
	}
	testutil.RequireNearlyEqual(t, "ratio", ratio, 10, 0.05)
}

func TestCutoffNotFound(t *testing.T) {
	if _, ok := CutoffBin([]float64{1, 0.9, 0.8}); ok {
		t.Fatal("flat spectrum has no cut-off")
	}

	if _, ok := CutoffBin([]float64{0, 0, 0}); ok {
		t.Fatal("zero spectrum has no cut-off")
	}

	if _, ok := CutoffRatio([]float64{1}); ok {
		t.Fatal("single bin has no cut-off")
	}
}

func TestCutoffBinInterpolates(t *testing.T) {
	// threshold = 1/sqrt(2), crossed halfway between bins 1 and 2.
	th := 1 / math.Sqrt2
	mag := []float64{1, th + 0.1, th - 0.1, 0}

	bin, ok := CutoffBin(mag)
	if !ok {
		t.Fatal("expected a cut-off")
	}
	testutil.RequireNearlyEqual(t, "bin", bin, 1.5, 1e-12)
}

func TestAnalyzerRejectsBadSize(t *testing.T) {
	for _, size := range []int{1, 3, 1000, -8} {
		if _, err := (Analyzer{FFTSize: size}).Magnitude(movavg.New(3, false)); err == nil {
			t.Fatalf("FFTSize %d: expected error", size)
		}
	}
}
