// Package config loads keyfang settings from file, environment, and
// defaults.
package config

import (
	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
	"github.com/Sumatoshi-tech/keyfang/internal/sampling"
)

// Default parameter values match the reference keyway: a ten-position,
// six-depth key with a MACS of four.
const (
	DefaultPositions  = 10
	DefaultDepths     = 6
	DefaultMACS       = 4
	DefaultSampleSize = 0
	DefaultWorkers    = 0
	DefaultSeed       = sampling.DefaultSeed
)

// Config holds all keyfang settings.
type Config struct {
	// Positions is the number of cut positions per key (n).
	Positions int `mapstructure:"positions"`

	// Depths is the number of discrete cut depths (k).
	Depths int `mapstructure:"depths"`

	// MACS is the maximum adjacent cut difference.
	MACS int `mapstructure:"macs"`

	// SampleSize requests a uniform sample of up to this many legal keys.
	// Zero or negative disables sampling.
	SampleSize int `mapstructure:"sample_size"`

	// Workers caps concurrent partitions; zero means one per partition.
	Workers int `mapstructure:"workers"`

	// Seed is the base sampling seed; zero selects the built-in default.
	Seed uint64 `mapstructure:"seed"`

	// MetricsAddr, when non-empty, serves Prometheus metrics there during
	// the search.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Spec returns the keyway spec described by the config.
func (c *Config) Spec() bitting.Spec {
	return bitting.Spec{
		Positions: c.Positions,
		Depths:    c.Depths,
		MACS:      c.MACS,
	}
}

// Validate checks parameter bounds and normalizes the fields that have a
// defined fallback instead of an error: a negative sample size means
// sampling disabled, a negative worker cap means unlimited.
func (c *Config) Validate() error {
	err := c.Spec().Validate()
	if err != nil {
		return err
	}

	if c.SampleSize < 0 {
		c.SampleSize = 0
	}

	if c.Workers < 0 {
		c.Workers = 0
	}

	return nil
}
