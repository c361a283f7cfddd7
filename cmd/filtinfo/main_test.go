package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/algo-sensorfilt/dsp/filterchain"
	"github.com/cwbudde/algo-sensorfilt/internal/config"
)

const chainYAML = `
sample_rate: 1000
stages:
  - id: despike
    type: median
    params: {length: 4}
  - id: avg
    type: movavg
    params: {length: 4}
  - id: bw
    type: butterworth
    params: {cutoff_hz: 100, order: 4}
`

func parseConfig(t *testing.T, s string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer

	err := printAnalysis(&buf, parseConfig(t, chainYAML), filterchain.DefaultRegistry(), 2048)
	if err != nil {
		t.Fatalf("printAnalysis() error = %v", err)
	}

	rows := map[string][]string{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		fields := strings.Fields(line)
		rows[fields[0]] = fields
	}

	if got := rows["despike"]; got[3] != "yes" || got[4] != "0.0000" || got[5] != "-" {
		t.Errorf("median row = %v", got)
	}

	if got := rows["avg"]; got[3] != "no" || got[4] != "1.0000" {
		t.Errorf("movavg row = %v", got)
	}

	// A 4th order Butterworth designed for 100 Hz is -3 dB at 100 Hz.
	if got := rows["bw"]; got[3] != "-" || got[4] != "1.0000" || !strings.HasPrefix(got[5], "100.0") && !strings.HasPrefix(got[5], "99.9") {
		t.Errorf("butterworth row = %v", got)
	}

	if _, ok := rows["(chain)"]; !ok {
		t.Error("missing chain row")
	}
}

func TestPrintAnalysisRatio(t *testing.T) {
	var buf bytes.Buffer

	cfg := parseConfig(t, "stages:\n  - {id: lp, type: butterworth, params: {ratio: 8}}\n")
	if err := printAnalysis(&buf, cfg, filterchain.DefaultRegistry(), 4096); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "Cut-off [fs/f]") {
		t.Fatalf("expected ratio header:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "8.00") && !strings.Contains(buf.String(), "7.99") {
		t.Fatalf("expected a ratio of about 8:\n%s", buf.String())
	}
}

func TestPrintAnalysisBadFFTSize(t *testing.T) {
	var buf bytes.Buffer
	if err := printAnalysis(&buf, parseConfig(t, chainYAML), filterchain.DefaultRegistry(), 1000); err == nil {
		t.Fatal("expected error for non power-of-two FFT size")
	}
}

func TestPrintCoefficients(t *testing.T) {
	var buf bytes.Buffer

	if err := printCoefficients(&buf, parseConfig(t, chainYAML), filterchain.DefaultRegistry()); err != nil {
		t.Fatal(err)
	}

	var sections int
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "bw ") {
			sections++
		}
	}

	if sections != 2 {
		t.Fatalf("got %d Butterworth sections, want 2:\n%s", sections, buf.String())
	}
}
