// Package config loads the YAML description of a sensor filter chain and
// watches it for changes.
//
// A minimal file:
//
//	sample_rate: 100
//	burn_in: true
//	stages:
//	  - id: despike
//	    type: median
//	    params: {length: 5}
//	  - type: butterworth
//	    params: {cutoff_hz: 5, order: 4}
//	state_file: /var/lib/sensorfilt/state.yaml
//
// Stage types and their params are those of filterchain.DefaultRegistry.
package config
