package physics

import (
	"fmt"
	"sort"

	"github.com/san-kum/qwell/internal/dynamo"
)

// DefaultWall stands in for an infinite wall. It is large enough to pin ψ to
// zero outside the well yet small enough that Wall*ψ*h² stays finite for
// |ψ| <= 1 and steps below 1e-2.
const DefaultWall = 1e10

type Potential interface {
	At(x float64) float64
}

// PotentialFunc adapts a plain function to Potential.
type PotentialFunc func(x float64) float64

func (f PotentialFunc) At(x float64) float64 { return f(x) }

// InfiniteWell is zero on the closed domain and Wall elsewhere.
type InfiniteWell struct {
	Domain dynamo.Domain
	Wall   float64
}

func NewInfiniteWell(d dynamo.Domain) *InfiniteWell {
	return &InfiniteWell{Domain: d, Wall: DefaultWall}
}

func (w *InfiniteWell) At(x float64) float64 {
	if w.Domain.Contains(x) {
		return 0
	}
	return w.Wall
}

func (w *InfiniteWell) GetParams() map[string]float64 {
	return map[string]float64{"wall": w.Wall}
}

func (w *InfiniteWell) SetParam(name string, value float64) error {
	switch name {
	case "wall":
		w.Wall = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Linear is a tilted well: Slope*(x-Min) on the domain, Wall elsewhere.
type Linear struct {
	Domain dynamo.Domain
	Slope  float64
	Wall   float64
}

func NewLinear(d dynamo.Domain, slope float64) *Linear {
	return &Linear{Domain: d, Slope: slope, Wall: DefaultWall}
}

func (l *Linear) At(x float64) float64 {
	if l.Domain.Contains(x) {
		return l.Slope * (x - l.Domain.Min)
	}
	return l.Wall
}

func (l *Linear) GetParams() map[string]float64 {
	return map[string]float64{"slope": l.Slope, "wall": l.Wall}
}

func (l *Linear) SetParam(name string, value float64) error {
	switch name {
	case "slope":
		l.Slope = value
	case "wall":
		l.Wall = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Configurable potentials accept named parameters from config files.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

const (
	InfiniteWellName = "infinite_well"
	LinearName       = "linear"
)

var potentials = map[string]func(d dynamo.Domain) Potential{
	InfiniteWellName: func(d dynamo.Domain) Potential { return NewInfiniteWell(d) },
	LinearName:       func(d dynamo.Domain) Potential { return NewLinear(d, 0) },
}

// NewPotential builds a named potential on d and applies params to it.
func NewPotential(name string, d dynamo.Domain, params map[string]float64) (Potential, error) {
	if name == "" {
		name = InfiniteWellName
	}
	fn, ok := potentials[name]
	if !ok {
		return nil, fmt.Errorf("unknown potential: %s", name)
	}
	v := fn(d)
	if len(params) == 0 {
		return v, nil
	}
	c, ok := v.(Configurable)
	if !ok {
		return nil, fmt.Errorf("potential %s takes no parameters", name)
	}
	for k, val := range params {
		if err := c.SetParam(k, val); err != nil {
			return nil, fmt.Errorf("potential %s: %w", name, err)
		}
	}
	return v, nil
}

func ListPotentials() []string {
	names := make([]string, 0, len(potentials))
	for name := range potentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
