package physics

import "github.com/san-kum/qwell/internal/dynamo"

// Schrodinger is the time-independent Schrödinger equation for V, with ħ = m = 1.
type Schrodinger struct {
	V Potential
}

func NewSchrodinger(v Potential) *Schrodinger {
	return &Schrodinger{V: v}
}

// Bind fixes the energy and returns the flow over (ψ, ψ').
func (s *Schrodinger) Bind(energy float64) dynamo.System {
	return &boundFlow{v: s.V, energy: energy}
}

// Augmented returns the flow over (ψ, ψ', E) with dE/dx = 0.
func (s *Schrodinger) Augmented() dynamo.System {
	return &augmentedFlow{v: s.V}
}

type boundFlow struct {
	v      Potential
	energy float64
}

func (f *boundFlow) Dim() int { return 2 }

func (f *boundFlow) Derive(x float64, y dynamo.State) dynamo.State {
	return dynamo.State{y[1], -2 * (f.energy - f.v.At(x)) * y[0]}
}

type augmentedFlow struct {
	v Potential
}

func (f *augmentedFlow) Dim() int { return 3 }

func (f *augmentedFlow) Derive(x float64, y dynamo.State) dynamo.State {
	return dynamo.State{y[1], -2 * (y[2] - f.v.At(x)) * y[0], 0}
}
