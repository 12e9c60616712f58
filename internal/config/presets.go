package config

import (
	"sort"

	"github.com/san-kum/qwell/internal/physics"
	"github.com/san-kum/qwell/internal/solver"
)

// Presets are named starting points on the unit well. Each one overrides the
// bracket and, for tilted, the potential.
var Presets = map[string]*Config{
	"ground":         withBracket(solver.Bracket{Lo: 0, Hi: 10}),
	"first_excited":  withBracket(solver.Bracket{Lo: 10, Hi: 20}),
	"second_excited": withBracket(solver.Bracket{Lo: 30, Hi: 60}),
	"tilted": func() *Config {
		cfg := withBracket(solver.Bracket{Lo: 0, Hi: 15})
		cfg.Potential = PotentialConfig{Name: physics.LinearName, Params: map[string]float64{"slope": 5}}
		return cfg
	}(),
}

func withBracket(b solver.Bracket) *Config {
	cfg := DefaultConfig()
	cfg.Bracket = b
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
