package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Domain is the closed interval [Min, Max] an ODE is integrated over.
type Domain struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (d Domain) Width() float64 { return d.Max - d.Min }

// Contains reports whether x lies in [Min, Max].
func (d Domain) Contains(x float64) bool { return x >= d.Min && x <= d.Max }

func (d Domain) Validate() error {
	if math.IsNaN(d.Min) || math.IsInf(d.Min, 0) || math.IsNaN(d.Max) || math.IsInf(d.Max, 0) {
		return fmt.Errorf("%w: bounds must be finite, got [%g, %g]", ErrInvalidDomain, d.Min, d.Max)
	}
	if d.Min >= d.Max {
		return fmt.Errorf("%w: min must be below max, got [%g, %g]", ErrInvalidDomain, d.Min, d.Max)
	}
	return nil
}

func (d Domain) String() string {
	return fmt.Sprintf("[%g, %g]", d.Min, d.Max)
}

// System is an ODE dY/dx = f(x, Y). Derive must not retain or modify y.
type System interface {
	Derive(x float64, y State) State
	Dim() int
}

// Observer receives the initial point and every accepted step of a run.
// y is only valid for the duration of the call.
type Observer interface {
	OnStep(x float64, y State)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(x float64, y State)

func (f ObserverFunc) OnStep(x float64, y State) { f(x, y) }

type Integrator interface {
	Integrate(sys System, span Domain, y0 State, obs Observer) (Stats, error)
}

// Tolerances controls step adaptation. A zero MaxStep or MinStep is derived
// from the span being integrated; a zero InitialStep is estimated.
type Tolerances struct {
	Abs         float64 `json:"abs" yaml:"abs"`
	Rel         float64 `json:"rel" yaml:"rel"`
	MaxStep     float64 `json:"max_step" yaml:"max_step"`
	MinStep     float64 `json:"min_step" yaml:"min_step"`
	InitialStep float64 `json:"initial_step" yaml:"initial_step"`
	MaxSteps    int     `json:"max_steps" yaml:"max_steps"`
}

const (
	DefaultAbsTol   = 1e-11
	DefaultRelTol   = 1e-10
	DefaultMaxSteps = 100000

	// MaxStepFraction is the default MaxStep as a fraction of the domain width.
	MaxStepFraction = 0.01
	// MinStepFraction is the default MinStep as a fraction of the domain width.
	MinStepFraction = 1e-14
)

func DefaultTolerances() Tolerances {
	return Tolerances{
		Abs:      DefaultAbsTol,
		Rel:      DefaultRelTol,
		MaxSteps: DefaultMaxSteps,
	}
}

// Resolve fills derived limits for span and validates the result.
func (t Tolerances) Resolve(span Domain) (Tolerances, error) {
	if err := span.Validate(); err != nil {
		return t, err
	}
	if t.MaxStep == 0 {
		t.MaxStep = span.Width() * MaxStepFraction
	}
	if t.MinStep == 0 {
		t.MinStep = span.Width() * MinStepFraction
	}
	if t.MaxSteps == 0 {
		t.MaxSteps = DefaultMaxSteps
	}
	switch {
	case t.Abs < 0 || t.Rel < 0 || (t.Abs == 0 && t.Rel == 0):
		return t, fmt.Errorf("%w: abs=%g rel=%g", ErrInvalidTolerance, t.Abs, t.Rel)
	case t.MaxStep < 0 || t.MinStep < 0 || t.InitialStep < 0:
		return t, fmt.Errorf("%w: step limits must be non-negative", ErrInvalidTolerance)
	case t.MinStep > t.MaxStep:
		return t, fmt.Errorf("%w: min step %g exceeds max step %g", ErrInvalidTolerance, t.MinStep, t.MaxStep)
	case t.MaxSteps < 0:
		return t, fmt.Errorf("%w: max steps must be positive, got %d", ErrInvalidTolerance, t.MaxSteps)
	}
	return t, nil
}

// Stats describes one integration run.
type Stats struct {
	Steps       int     `json:"steps"`
	Rejected    int     `json:"rejected"`
	Evaluations int     `json:"evaluations"`
	LastStep    float64 `json:"last_step"`
}
