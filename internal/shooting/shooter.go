// Package shooting integrates the Schrödinger equation across the well for a
// trial energy and reports how far the far boundary misses its target.
package shooting

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/qwell/internal/dynamo"
	"github.com/san-kum/qwell/internal/integrators"
	"github.com/san-kum/qwell/internal/physics"
)

const (
	// DefaultSlope is ψ'(x_min). Any non-zero value works; the
	// eigenfunction's normalization is fixed afterwards.
	DefaultSlope = 1.0
	// DefaultTarget is the Dirichlet value ψ(x_max) sought by the root finder.
	DefaultTarget = 0.0
)

var ErrZeroSlope = errors.New("shooting: initial slope must be non-zero")

// Shot is the outcome of one integration at a fixed energy. Each call to
// Shoot returns a fresh Shot owned by the caller.
type Shot struct {
	Energy     float64      `json:"energy"`
	Residual   float64      `json:"residual"`
	Boundary   float64      `json:"boundary"`
	Trajectory Trajectory   `json:"trajectory"`
	Stats      dynamo.Stats `json:"stats"`
}

// Shooter holds the fixed inputs of a shooting problem. It has no mutable
// state, so concurrent Shoot calls are safe.
type Shooter struct {
	flow       *physics.Schrodinger
	domain     dynamo.Domain
	slope      float64
	target     float64
	integrator dynamo.Integrator
}

type Option func(*Shooter)

func WithSlope(slope float64) Option {
	return func(s *Shooter) { s.slope = slope }
}

func WithTarget(target float64) Option {
	return func(s *Shooter) { s.target = target }
}

func WithIntegrator(integ dynamo.Integrator) Option {
	return func(s *Shooter) { s.integrator = integ }
}

func New(v physics.Potential, d dynamo.Domain, opts ...Option) (*Shooter, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("shooting: potential is required")
	}

	s := &Shooter{
		flow:   physics.NewSchrodinger(v),
		domain: d,
		slope:  DefaultSlope,
		target: DefaultTarget,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.slope == 0 || math.IsNaN(s.slope) || math.IsInf(s.slope, 0) {
		return nil, ErrZeroSlope
	}
	if s.integrator == nil {
		s.integrator = integrators.NewDormandPrince(dynamo.DefaultTolerances())
	}
	return s, nil
}

func (s *Shooter) Domain() dynamo.Domain { return s.domain }

func (s *Shooter) Slope() float64 { return s.slope }

func (s *Shooter) Target() float64 { return s.target }

// Shoot integrates from x_min with ψ = 0, ψ' = slope at the given energy.
func (s *Shooter) Shoot(energy float64) (*Shot, error) {
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return nil, dynamo.Failure(0, s.domain.Min, nil, fmt.Errorf("%w: energy %g", dynamo.ErrNonFinite, energy))
	}

	traj := make(Trajectory, 0, 128)
	obs := dynamo.ObserverFunc(func(x float64, y dynamo.State) {
		traj = append(traj, Sample{X: x, Psi: y[0], DPsi: y[1]})
	})

	y0 := dynamo.State{0, s.slope}
	stats, err := s.integrator.Integrate(s.flow.Bind(energy), s.domain, y0, obs)
	if err != nil {
		return nil, fmt.Errorf("shoot at E=%.10g: %w", energy, err)
	}

	end := traj.End()
	return &Shot{
		Energy:     energy,
		Residual:   end.Psi - s.target,
		Boundary:   end.Psi,
		Trajectory: traj,
		Stats:      stats,
	}, nil
}

// Residual returns ψ(x_max; E) - target.
func (s *Shooter) Residual(energy float64) (float64, error) {
	shot, err := s.Shoot(energy)
	if err != nil {
		return 0, err
	}
	return shot.Residual, nil
}
