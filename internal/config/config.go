package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kossner/accrete/internal/gravity"
)

const (
	DefaultDt       = 1.0
	DefaultDuration = 3600.0
	DefaultBodies   = 256
	DefaultDim      = 3
)

type Config struct {
	Scenario    string          `yaml:"scenario"`
	Solver      string          `yaml:"solver"` // direct | tree
	Dim         int             `yaml:"dim"`
	Bodies      int             `yaml:"bodies"`
	Dt          float64         `yaml:"dt"`
	Duration    float64         `yaml:"duration"`
	Seed        int64           `yaml:"seed"`
	SampleEvery int             `yaml:"sample_every"`
	Workers     int             `yaml:"workers"`
	Pipelined   bool            `yaml:"pipelined"`
	Constants   ConstantsConfig `yaml:"constants"`
}

// ConstantsConfig mirrors gravity.Constants for the yaml surface. Zero fields
// fall back to the physical defaults on conversion.
type ConstantsConfig struct {
	G                    float64 `yaml:"g"`
	Density              float64 `yaml:"density"`
	HeatCapacity         float64 `yaml:"heat_capacity"`
	StefanBoltzmann      float64 `yaml:"stefan_boltzmann"`
	MinTemperature       float64 `yaml:"min_temperature"`
	ImpactHeatMultiplier float64 `yaml:"impact_heat_multiplier"`
	MaxImpactTemperature float64 `yaml:"max_impact_temperature"`
	Theta                float64 `yaml:"theta"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:    "disk",
		Solver:      "tree",
		Dim:         DefaultDim,
		Bodies:      DefaultBodies,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		SampleEvery: 60,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
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

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Dim != 2 && c.Dim != 3 {
		return fmt.Errorf("dim must be 2 or 3, got %d", c.Dim)
	}
	switch c.Solver {
	case "direct", "tree":
	default:
		return fmt.Errorf("solver must be direct or tree, got %q", c.Solver)
	}
	return nil
}

// GravityConstants converts the yaml constants into the kernel bundle,
// filling unset fields from the defaults.
func (c *Config) GravityConstants() gravity.Constants {
	out := gravity.DefaultConstants()
	in := c.Constants
	if in.G != 0 {
		out.G = in.G
	}
	if in.Density != 0 {
		out.Density = in.Density
	}
	if in.HeatCapacity != 0 {
		out.HeatCapacity = in.HeatCapacity
	}
	if in.StefanBoltzmann != 0 {
		out.StefanBoltzmann = in.StefanBoltzmann
	}
	if in.MinTemperature != 0 {
		out.MinTemperature = in.MinTemperature
	}
	if in.ImpactHeatMultiplier != 0 {
		out.ImpactHeatMultiplier = in.ImpactHeatMultiplier
	}
	if in.MaxImpactTemperature != 0 {
		out.MaxImpactTemperature = in.MaxImpactTemperature
	}
	if in.Theta != 0 {
		out.Theta = in.Theta
	}
	return out
}

// BuildSolver constructs the configured force solver, optionally wrapped in
// the double-buffered pipeline.
func (c *Config) BuildSolver() (gravity.Solver, error) {
	var s gravity.Solver
	switch c.Solver {
	case "direct":
		if c.Workers > 1 {
			s = gravity.ParallelDirect{Workers: c.Workers}
		} else {
			s = gravity.Direct{}
		}
	case "tree":
		s = gravity.NewBarnesHut(c.Dim)
	default:
		return nil, fmt.Errorf("unknown solver %q", c.Solver)
	}
	if c.Pipelined {
		s = gravity.NewPipelined(s, c.Dim)
	}
	return s, nil
}
