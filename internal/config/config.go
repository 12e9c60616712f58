package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/qwell/internal/dynamo"
	"github.com/san-kum/qwell/internal/integrators"
	"github.com/san-kum/qwell/internal/physics"
	"github.com/san-kum/qwell/internal/roots"
	"github.com/san-kum/qwell/internal/shooting"
	"github.com/san-kum/qwell/internal/solver"
)

const (
	DefaultMin        = 0.0
	DefaultMax        = 1.0
	DefaultPotential  = physics.InfiniteWellName
	DefaultIntegrator = integrators.DormandPrinceName
	DefaultMethod     = string(roots.MethodBrent)
)

type Config struct {
	Domain     dynamo.Domain     `yaml:"domain"`
	Potential  PotentialConfig   `yaml:"potential"`
	Slope      float64           `yaml:"slope"`
	Target     float64           `yaml:"target"`
	Bracket    solver.Bracket    `yaml:"bracket"`
	Integrator string            `yaml:"integrator"`
	Tolerances dynamo.Tolerances `yaml:"tolerances"`
	Root       RootConfig        `yaml:"root"`
}

type PotentialConfig struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

type RootConfig struct {
	Method  string  `yaml:"method"`
	XTol    float64 `yaml:"xtol"`
	RTol    float64 `yaml:"rtol"`
	MaxIter int     `yaml:"max_iter"`
}

func DefaultConfig() *Config {
	opts := roots.DefaultOptions()
	return &Config{
		Domain:     dynamo.Domain{Min: DefaultMin, Max: DefaultMax},
		Potential:  PotentialConfig{Name: DefaultPotential},
		Slope:      shooting.DefaultSlope,
		Target:     shooting.DefaultTarget,
		Bracket:    solver.DefaultBracket,
		Integrator: DefaultIntegrator,
		Tolerances: dynamo.DefaultTolerances(),
		Root: RootConfig{
			Method:  DefaultMethod,
			XTol:    opts.XTol,
			RTol:    opts.RTol,
			MaxIter: opts.MaxIter,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base. Keys absent from the file
// keep the value from base. A potential section replaces the base potential
// as a whole, params included.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var override struct {
		Potential *PotentialConfig `yaml:"potential"`
	}
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if override.Potential != nil {
		cfg.Potential = *override.Potential
		if cfg.Potential.Name == "" {
			cfg.Potential.Name = DefaultPotential
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
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
	if err := c.Domain.Validate(); err != nil {
		return err
	}
	if c.Slope == 0 || math.IsNaN(c.Slope) || math.IsInf(c.Slope, 0) {
		return fmt.Errorf("slope must be finite and non-zero, got %g", c.Slope)
	}
	if math.IsNaN(c.Target) || math.IsInf(c.Target, 0) {
		return fmt.Errorf("target must be finite, got %g", c.Target)
	}
	if !(c.Bracket.Lo < c.Bracket.Hi) {
		return fmt.Errorf("%w: bracket %s", dynamo.ErrInvalidBracket, c.Bracket)
	}
	if _, err := physics.NewPotential(c.Potential.Name, c.Domain, c.Potential.Params); err != nil {
		return err
	}
	if _, err := c.Tolerances.Resolve(c.Domain); err != nil {
		return err
	}
	if _, err := integrators.New(c.Integrator, c.Tolerances); err != nil {
		return err
	}
	if _, err := roots.ParseMethod(c.Root.Method); err != nil {
		return err
	}
	if c.Root.XTol < 0 || c.Root.RTol < 0 || c.Root.MaxIter < 0 {
		return fmt.Errorf("%w: root options must be non-negative", dynamo.ErrInvalidTolerance)
	}
	return nil
}

// Solver converts the file form into a solver configuration.
func (c *Config) Solver() (solver.Config, error) {
	if err := c.Validate(); err != nil {
		return solver.Config{}, err
	}
	v, err := physics.NewPotential(c.Potential.Name, c.Domain, c.Potential.Params)
	if err != nil {
		return solver.Config{}, err
	}
	integ, err := integrators.New(c.Integrator, c.Tolerances)
	if err != nil {
		return solver.Config{}, err
	}
	method, err := roots.ParseMethod(c.Root.Method)
	if err != nil {
		return solver.Config{}, err
	}
	return solver.Config{
		Domain:     c.Domain,
		Potential:  v,
		Slope:      c.Slope,
		Target:     c.Target,
		Integrator: integ,
		Method:     method,
		Root:       roots.Options{XTol: c.Root.XTol, RTol: c.Root.RTol, MaxIter: c.Root.MaxIter},
	}, nil
}

func (c *Config) Clone() *Config {
	out := *c
	if c.Potential.Params != nil {
		out.Potential.Params = make(map[string]float64, len(c.Potential.Params))
		for k, v := range c.Potential.Params {
			out.Potential.Params[k] = v
		}
	}
	return &out
}
