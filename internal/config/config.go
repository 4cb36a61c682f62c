package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mclab/internal/mc"
)

const (
	DefaultParticles   = 100
	DefaultDensity     = 0.8
	DefaultEpsilon     = 1.0
	DefaultSigma       = 1.0
	DefaultCutoff      = 2.5 // in units of sigma
	DefaultBoltzmann   = 1.0
	DefaultTemperature = 1.0
	DefaultMaxDisp     = 0.1
	DefaultSteps       = 200000
	DefaultSampleEvery = 100
	DefaultWarmup      = 50000
)

type Config struct {
	Particles       int     `yaml:"particles"`
	Density         float64 `yaml:"density"`
	Epsilon         float64 `yaml:"epsilon"`
	Sigma           float64 `yaml:"sigma"`
	Cutoff          float64 `yaml:"cutoff"` // multiple of sigma
	Boltzmann       float64 `yaml:"kb"`
	Temperature     float64 `yaml:"temperature"`
	MaxDisplacement float64 `yaml:"max_displacement"`
	Seed            int64   `yaml:"seed"`
	Steps           int64   `yaml:"steps"`
	SampleEvery     int64   `yaml:"sample_every"`
	Warmup          int64   `yaml:"warmup"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:       DefaultParticles,
		Density:         DefaultDensity,
		Epsilon:         DefaultEpsilon,
		Sigma:           DefaultSigma,
		Cutoff:          DefaultCutoff,
		Boltzmann:       DefaultBoltzmann,
		Temperature:     DefaultTemperature,
		MaxDisplacement: DefaultMaxDisp,
		Steps:           DefaultSteps,
		SampleEvery:     DefaultSampleEvery,
		Warmup:          DefaultWarmup,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the sampling schedule. Physical parameters are
// validated again by mc.New before any state is created.
func (c *Config) Validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	if c.SampleEvery <= 0 {
		return fmt.Errorf("sample_every must be positive, got %d", c.SampleEvery)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warmup must be non-negative, got %d", c.Warmup)
	}
	if c.Steps > 0 && c.Warmup >= c.Steps {
		return fmt.Errorf("warmup %d must be smaller than steps %d", c.Warmup, c.Steps)
	}
	return nil
}

// Params maps the file/flag representation onto the sampler parameters.
// The cutoff is stored as a multiple of sigma and resolved here.
func (c *Config) Params() mc.Params {
	return mc.Params{
		N:               c.Particles,
		Density:         c.Density,
		Epsilon:         c.Epsilon,
		Sigma:           c.Sigma,
		Rcut:            c.Cutoff * c.Sigma,
		Boltzmann:       c.Boltzmann,
		Temperature:     c.Temperature,
		MaxDisplacement: c.MaxDisplacement,
	}
}
