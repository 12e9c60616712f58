// Package solver finds bound-state energies by coupling the shooter to a
// bracketing root finder.
package solver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/qwell/internal/dynamo"
	"github.com/san-kum/qwell/internal/integrators"
	"github.com/san-kum/qwell/internal/physics"
	"github.com/san-kum/qwell/internal/roots"
	"github.com/san-kum/qwell/internal/shooting"
)

// Bracket is an energy interval assumed to hold exactly one eigenvalue.
type Bracket struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

func (b Bracket) String() string { return fmt.Sprintf("[%g, %g]", b.Lo, b.Hi) }

// DefaultBracket holds the ground state of the unit infinite well.
var DefaultBracket = Bracket{Lo: 0, Hi: 10}

type Config struct {
	Domain     dynamo.Domain
	Potential  physics.Potential
	Slope      float64
	Target     float64
	Integrator dynamo.Integrator
	Method     roots.Method
	Root       roots.Options
}

func DefaultConfig() Config {
	d := dynamo.Domain{Min: 0, Max: 1}
	return Config{
		Domain:     d,
		Potential:  physics.NewInfiniteWell(d),
		Slope:      shooting.DefaultSlope,
		Target:     shooting.DefaultTarget,
		Integrator: integrators.NewDormandPrince(dynamo.DefaultTolerances()),
		Method:     roots.MethodBrent,
		Root:       roots.DefaultOptions(),
	}
}

// Eigenstate is the result of one search. Trajectory was integrated at
// exactly Energy.
type Eigenstate struct {
	Energy        float64             `json:"energy"`
	Residual      float64             `json:"residual"`
	Bracket       Bracket             `json:"bracket"`
	Trajectory    shooting.Trajectory `json:"trajectory"`
	Stats         dynamo.Stats        `json:"stats"`
	Converged     bool                `json:"converged"`
	Iterations    int                 `json:"iterations"`
	FunctionCalls int                 `json:"function_calls"`
}

// Err reports ErrNonConvergence for a search that ran out of iterations.
func (e *Eigenstate) Err() error {
	if e.Converged {
		return nil
	}
	return fmt.Errorf("%w after %d iterations in %s (best E=%.10g)", dynamo.ErrNonConvergence, e.Iterations, e.Bracket, e.Energy)
}

type Solver struct {
	cfg     Config
	shooter *shooting.Shooter
	logger  *slog.Logger
}

type Option func(*Solver)

// WithLogger sets a structured logger. Evaluations are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) { s.logger = logger }
}

func New(cfg Config, opts ...Option) (*Solver, error) {
	if cfg.Potential == nil {
		cfg.Potential = physics.NewInfiniteWell(cfg.Domain)
	}
	if cfg.Method == "" {
		cfg.Method = roots.MethodBrent
	}
	if cfg.Slope == 0 {
		cfg.Slope = shooting.DefaultSlope
	}

	shootOpts := []shooting.Option{shooting.WithSlope(cfg.Slope), shooting.WithTarget(cfg.Target)}
	if cfg.Integrator != nil {
		shootOpts = append(shootOpts, shooting.WithIntegrator(cfg.Integrator))
	}
	sh, err := shooting.New(cfg.Potential, cfg.Domain, shootOpts...)
	if err != nil {
		return nil, err
	}

	s := &Solver{cfg: cfg, shooter: sh}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s, nil
}

func (s *Solver) Shooter() *shooting.Shooter { return s.shooter }

// Compute searches b for the energy whose trajectory meets the far boundary
// condition. An invalid bracket or a failed integration returns an error and
// no result; running out of iterations returns a result with Converged false.
func (s *Solver) Compute(ctx context.Context, b Bracket) (*Eigenstate, error) {
	log := s.logger.With("bracket", b.String(), "method", string(s.cfg.Method))
	start := time.Now()

	var last *shooting.Shot
	residual := func(energy float64) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		shot, err := s.shooter.Shoot(energy)
		if err != nil {
			return 0, err
		}
		last = shot
		log.Debug("shoot", "energy", energy, "residual", shot.Residual, "steps", shot.Stats.Steps, "rejected", shot.Stats.Rejected)
		return shot.Residual, nil
	}

	res, err := s.cfg.Method.Find(residual, b.Lo, b.Hi, s.cfg.Root)
	if err != nil {
		log.Warn("search failed", "error", err)
		return nil, fmt.Errorf("solve %s: %w", b, err)
	}

	if last == nil || last.Energy != res.Root {
		if last, err = s.shooter.Shoot(res.Root); err != nil {
			return nil, fmt.Errorf("solve %s: re-shoot at root: %w", b, err)
		}
	}

	state := &Eigenstate{
		Energy:        res.Root,
		Residual:      last.Residual,
		Bracket:       b,
		Trajectory:    last.Trajectory,
		Stats:         last.Stats,
		Converged:     res.Converged,
		Iterations:    res.Iterations,
		FunctionCalls: res.FuncCalls,
	}

	if state.Converged {
		log.Info("converged", "energy", state.Energy, "iterations", state.Iterations, "calls", state.FunctionCalls, "elapsed", time.Since(start))
	} else {
		log.Warn("not converged", "energy", state.Energy, "iterations", state.Iterations, "calls", state.FunctionCalls)
	}
	return state, nil
}
