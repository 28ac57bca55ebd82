package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/keylessanchor/rssiprox/proxrssi"
)

// config is the on-disk YAML shape for overriding proxrssi.Params.
// Every field is a pointer so that an absent key in the file leaves
// the corresponding Params field at its proxrssi.DefaultParams value,
// while an explicit zero is passed through to proxrssi.New, which
// resolves it by Params.withDefaults' own zero-means-default convention
// instead of re-implementing it here.
type config struct {
	WRawMs   *uint32 `yaml:"w_raw_ms"`
	WSpikeMs *uint32 `yaml:"w_spike_ms"`
	WFeatMs  *uint32 `yaml:"w_feat_ms"`

	HampelKQ4 *uint16 `yaml:"hampel_k_q4"`
	MadEpsQ4  *uint16 `yaml:"mad_eps_q4"`

	EnterNearQ4 *int16  `yaml:"enter_near_q4"`
	ExitNearQ4  *int16  `yaml:"exit_near_q4"`
	HystQ4      *uint16 `yaml:"hyst_q4"`

	PctThQ15       *uint16 `yaml:"pct_th_q15"`
	StdThQ4        *uint16 `yaml:"std_th_q4"`
	StableMs       *uint32 `yaml:"stable_ms"`
	MinFeatSamples *uint16 `yaml:"min_feat_samples"`

	ExitConfirmMs *uint32 `yaml:"exit_confirm_ms"`
	LockoutMs     *uint32 `yaml:"lockout_ms"`

	MaxReasonableDtMs *uint32 `yaml:"max_reasonable_dt_ms"`
}

// loadConfig reads a YAML config file, if path is non-empty, and
// applies any set fields on top of proxrssi.DefaultParams. An empty
// path is not an error: the caller runs with the shipped defaults.
func loadConfig(path string) (proxrssi.Params, error) {
	params := proxrssi.DefaultParams()

	if path == "" {
		return params, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return params, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return params, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.applyTo(&params)

	return params, nil
}

func (c config) applyTo(p *proxrssi.Params) {
	if c.WRawMs != nil {
		p.WRawMs = *c.WRawMs
	}
	if c.WSpikeMs != nil {
		p.WSpikeMs = *c.WSpikeMs
	}
	if c.WFeatMs != nil {
		p.WFeatMs = *c.WFeatMs
	}
	if c.HampelKQ4 != nil {
		p.HampelKQ4 = *c.HampelKQ4
	}
	if c.MadEpsQ4 != nil {
		p.MadEpsQ4 = *c.MadEpsQ4
	}
	if c.EnterNearQ4 != nil {
		p.EnterNearQ4 = *c.EnterNearQ4
	}
	if c.ExitNearQ4 != nil {
		p.ExitNearQ4 = *c.ExitNearQ4
	}
	if c.HystQ4 != nil {
		p.HystQ4 = *c.HystQ4
	}
	if c.PctThQ15 != nil {
		p.PctThQ15 = *c.PctThQ15
	}
	if c.StdThQ4 != nil {
		p.StdThQ4 = *c.StdThQ4
	}
	if c.StableMs != nil {
		p.StableMs = *c.StableMs
	}
	if c.MinFeatSamples != nil {
		p.MinFeatSamples = *c.MinFeatSamples
	}
	if c.ExitConfirmMs != nil {
		p.ExitConfirmMs = *c.ExitConfirmMs
	}
	if c.LockoutMs != nil {
		p.LockoutMs = *c.LockoutMs
	}
	if c.MaxReasonableDtMs != nil {
		p.MaxReasonableDtMs = *c.MaxReasonableDtMs
	}
}
