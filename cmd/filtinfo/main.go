// Command filtinfo prints the response of each stage of a filter chain config.
//
// Usage:
//
//	filtinfo [flags] chain.yaml
//
// For every stage, and for the chain as a whole, it measures the impulse
// response and reports the DC gain and -3 dB cut-off. Cut-offs are given in
// Hz when the config sets sample_rate, otherwise as a ratio of the sample
// rate.
//
// Examples:
//
//	filtinfo chain.yaml
//	filtinfo -fft 4096 -coeffs chain.yaml
//	filtinfo -list
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-sensorfilt/dsp/filter/butterworth"
	"github.com/cwbudde/algo-sensorfilt/dsp/filterchain"
	"github.com/cwbudde/algo-sensorfilt/internal/config"
	"github.com/cwbudde/algo-sensorfilt/measure/response"
)

func main() {
	fftSize := flag.Int("fft", response.DefaultFFTSize, "impulse response length (power of two)")
	coeffs := flag.Bool("coeffs", false, "also print Butterworth section coefficients")
	list := flag.Bool("list", false, "list available filter types")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: filtinfo [flags] chain.yaml\n\n")
		fmt.Fprintf(os.Stderr, "Prints DC gain and cut-off of every stage in a filter chain.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	reg := filterchain.DefaultRegistry()

	if *list {
		for _, t := range reg.Types() {
			fmt.Println(t)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := printAnalysis(os.Stdout, cfg, reg, *fftSize); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *coeffs {
		if err := printCoefficients(os.Stdout, cfg, reg); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// printAnalysis writes one row per stage plus one for the whole chain.
// Every row is measured on a freshly built filter.
func printAnalysis(w io.Writer, cfg *config.Config, reg *filterchain.Registry, fftSize int) error {
	a := response.Analyzer{FFTSize: fftSize}
	params := cfg.ChainParams()

	cutoffHeader := "Cut-off [fs/f]"
	if cfg.SampleRate > 0 {
		cutoffHeader = "Cut-off [Hz]"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Stage\tType\tBurn-in\tAdjusted\tDC Gain\t%s\n", cutoffHeader)
	fmt.Fprintf(tw, "-----\t----\t-------\t--------\t-------\t%s\n", dashes(len(cutoffHeader)))

	for i, p := range params {
		stage, err := reg.Build(p)
		if err != nil {
			return fmt.Errorf("stage %d (%s): %w", i, p.Type, err)
		}

		mag, err := a.Magnitude(stage)
		if err != nil {
			return err
		}

		adjusted := "-"
		if adj, ok := stage.(filterchain.Adjuster); ok {
			adjusted = yesNo(adj.Adjusted())
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.4f\t%s\n",
			p.ID, p.Type, yesNo(p.BurnIn), adjusted, mag[0], cutoff(mag, cfg.SampleRate))
	}

	chain, err := cfg.NewChain(reg)
	if err != nil {
		return err
	}

	mag, err := a.Magnitude(chain)
	if err != nil {
		return err
	}

	fmt.Fprintf(tw, "(chain)\t\t\t%s\t%.4f\t%s\n",
		yesNo(len(chain.Adjusted()) > 0), mag[0], cutoff(mag, cfg.SampleRate))

	return tw.Flush()
}

// printCoefficients lists the sections of every Butterworth stage.
func printCoefficients(w io.Writer, cfg *config.Config, reg *filterchain.Registry) error {
	chain, err := cfg.NewChain(reg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nStage\tSection\tGain\ta0\ta1\ta2\tb1\tb2\n")
	fmt.Fprintf(tw, "-----\t-------\t----\t--\t--\t--\t--\t--\n")

	for i := range chain.Len() {
		bw, ok := chain.Stage(i).(interface{ Filter() *butterworth.Cascade })
		if !ok {
			continue
		}

		c := bw.Filter()
		for k := range c.Order() / 2 {
			s := c.Section(k)
			fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.3f\t%.3f\t%.3f\t%.6f\t%.6f\n",
				chain.Params(i).ID, k, s.Gain, s.A0, s.A1, s.A2, s.B1, s.B2)
		}
	}

	return tw.Flush()
}

func cutoff(mag []float64, sampleRate float64) string {
	if sampleRate > 0 {
		if hz, ok := response.CutoffFrequency(mag, sampleRate); ok {
			return fmt.Sprintf("%.3f", hz)
		}
		return "-"
	}

	if r, ok := response.CutoffRatio(mag); ok && !math.IsInf(r, 0) {
		return fmt.Sprintf("%.3f", r)
	}
	return "-"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
