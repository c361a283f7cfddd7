package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-sensorfilt/dsp/filterchain"
)

// DefaultBurnIn applies to stages that do not set burn_in themselves.
const DefaultBurnIn = true

// Config is the top-level configuration of a filter chain.
type Config struct {
	// SampleRate in Hz. Only needed when a stage uses cutoff_hz.
	SampleRate float64 `yaml:"sample_rate"`

	// BurnIn is the default warm-up policy for all stages.
	BurnIn bool `yaml:"burn_in"`

	// Stages run in order on every sample.
	Stages []Stage `yaml:"stages"`

	// StateFile is an optional snapshot path for warm restarts.
	StateFile string `yaml:"state_file"`
}

// Stage describes one filter in the chain.
type Stage struct {
	// ID names the stage in snapshots, logs and metrics. Defaults to
	// "<type>-<index>".
	ID string `yaml:"id"`

	// Type is one of: median | movavg | lowpass | highpass | butterworth.
	Type string `yaml:"type"`

	// BurnIn overrides Config.BurnIn when set.
	BurnIn *bool `yaml:"burn_in"`

	// Params are the numeric filter parameters, e.g. length, alpha, ratio,
	// cutoff_hz or order.
	Params map[string]float64 `yaml:"params"`
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read file")
	}

	return Parse(data)
}

// Parse decodes a YAML document, fills defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "config: parse yaml")
	}

	for i := range cfg.Stages {
		if cfg.Stages[i].ID == "" {
			cfg.Stages[i].ID = fmt.Sprintf("%s-%d", cfg.Stages[i].Type, i)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "config")
	}

	return cfg, nil
}

// ChainParams converts the stages into filterchain parameters.
func (c *Config) ChainParams() []filterchain.Params {
	params := make([]filterchain.Params, len(c.Stages))
	for i, s := range c.Stages {
		burnIn := c.BurnIn
		if s.BurnIn != nil {
			burnIn = *s.BurnIn
		}

		params[i] = filterchain.Params{
			ID:         s.ID,
			Type:       s.Type,
			BurnIn:     burnIn,
			SampleRate: c.SampleRate,
			Num:        s.Params,
		}
	}
	return params
}

// NewChain builds the configured chain from reg.
func (c *Config) NewChain(reg *filterchain.Registry) (*filterchain.Chain, error) {
	return filterchain.New(reg, c.ChainParams())
}

func defaults() *Config {
	return &Config{BurnIn: DefaultBurnIn}
}

// validate checks structural constraints, then builds the chain once so
// invalid filter parameters are reported at load time.
func validate(cfg *Config) error {
	if cfg.SampleRate < 0 {
		return errors.New("sample_rate must not be negative")
	}

	if len(cfg.Stages) == 0 {
		return errors.New("at least one stage is required")
	}

	reg := filterchain.DefaultRegistry()
	seen := make(map[string]int, len(cfg.Stages))

	for i, s := range cfg.Stages {
		if s.Type == "" {
			return errors.Errorf("stages[%d]: type is required", i)
		}

		if _, err := reg.Lookup(s.Type); err != nil {
			return errors.Wrapf(err, "stages[%d] %q", i, s.ID)
		}

		if j, dup := seen[s.ID]; dup {
			return errors.Errorf("stages[%d]: id %q already used by stages[%d]", i, s.ID, j)
		}
		seen[s.ID] = i
	}

	_, err := cfg.NewChain(reg)
	return err
}
