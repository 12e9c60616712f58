package solver_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/qwell/internal/analysis"
	"github.com/san-kum/qwell/internal/dynamo"
	"github.com/san-kum/qwell/internal/integrators"
	"github.com/san-kum/qwell/internal/physics"
	"github.com/san-kum/qwell/internal/roots"
	"github.com/san-kum/qwell/internal/shooting"
	"github.com/san-kum/qwell/internal/solver"
)

func level(n int) float64 {
	return float64(n*n) * math.Pi * math.Pi / 2
}

func interiorNodes(traj shooting.Trajectory) int {
	return analysis.Nodes(traj.Psis())
}

var _ = Describe("Solver", func() {
	var (
		ctx context.Context
		cfg solver.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = solver.DefaultConfig()
	})

	Describe("Compute", func() {
		It("finds the ground state in the default bracket", func() {
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			state, err := s.Compute(ctx, solver.DefaultBracket)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Converged).To(BeTrue())
			Expect(state.Err()).To(Succeed())
			Expect(state.Energy).To(BeNumerically("~", level(1), 1e-6))
			Expect(state.Energy).NotTo(BeNumerically("~", 4.4326, 0.1))
			Expect(state.Iterations).To(BeNumerically(">", 0))
			Expect(state.FunctionCalls).To(BeNumerically(">=", state.Iterations))
			Expect(state.Bracket).To(Equal(solver.DefaultBracket))
		})

		It("returns a half-period sine for the ground state", func() {
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			state, err := s.Compute(ctx, solver.DefaultBracket)
			Expect(err).NotTo(HaveOccurred())

			traj := state.Trajectory
			Expect(traj.At(0).X).To(Equal(0.0))
			Expect(traj.At(0).Psi).To(Equal(0.0))
			Expect(traj.End().X).To(Equal(1.0))
			Expect(traj.End().Psi).To(BeNumerically("~", 0, 1e-7))
			Expect(interiorNodes(traj)).To(Equal(0))

			k := math.Sqrt(2 * state.Energy)
			for _, p := range traj {
				Expect(p.Psi).To(BeNumerically("~", math.Sin(k*p.X)/k, 1e-7))
			}
		})

		It("finds the second level with one interior node", func() {
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			state, err := s.Compute(ctx, solver.Bracket{Lo: 10, Hi: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Converged).To(BeTrue())
			Expect(state.Energy).To(BeNumerically("~", level(2), 1e-6))
			Expect(interiorNodes(state.Trajectory)).To(Equal(1))
		})

		It("finds the third level with two interior nodes", func() {
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			state, err := s.Compute(ctx, solver.Bracket{Lo: 30, Hi: 60})
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Energy).To(BeNumerically("~", level(3), 1e-6))
			Expect(interiorNodes(state.Trajectory)).To(Equal(2))
		})

		It("returns a trajectory integrated at exactly the returned energy", func() {
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			state, err := s.Compute(ctx, solver.DefaultBracket)
			Expect(err).NotTo(HaveOccurred())

			shot, err := s.Shooter().Shoot(state.Energy)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Trajectory).To(Equal(shot.Trajectory))
			Expect(state.Residual).To(Equal(shot.Residual))
		})

		It("agrees between Brent and bisection", func() {
			brent, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			cfg.Method = roots.MethodBisect
			bisect, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			a, err := brent.Compute(ctx, solver.DefaultBracket)
			Expect(err).NotTo(HaveOccurred())
			b, err := bisect.Compute(ctx, solver.DefaultBracket)
			Expect(err).NotTo(HaveOccurred())

			Expect(a.Energy).To(BeNumerically("~", b.Energy, 1e-9))
			Expect(a.FunctionCalls).To(BeNumerically("<", b.FunctionCalls))
		})

		It("solves with the fixed-step integrator", func() {
			tol := dynamo.DefaultTolerances()
			tol.MaxStep = 1e-3
			cfg.Integrator = integrators.NewRK4(tol)
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			state, err := s.Compute(ctx, solver.DefaultBracket)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Energy).To(BeNumerically("~", level(1), 1e-6))
		})

		It("raises the ground state of a tilted well", func() {
			cfg.Potential = physics.NewLinear(cfg.Domain, 5)
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			state, err := s.Compute(ctx, solver.DefaultBracket)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Converged).To(BeTrue())
			// first-order perturbation: E1 + <V> = π²/2 + 5/2, second order lowers it slightly
			Expect(state.Energy).To(BeNumerically("~", level(1)+2.5, 0.1))
			Expect(state.Energy).To(BeNumerically("<", level(1)+2.5))
		})
	})

	Describe("failures", func() {
		It("rejects a bracket without a sign change", func() {
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			state, err := s.Compute(ctx, solver.Bracket{Lo: 0, Hi: 4})
			Expect(err).To(MatchError(dynamo.ErrInvalidBracket))
			Expect(state).To(BeNil())
		})

		It("rejects an inverted bracket", func() {
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Compute(ctx, solver.Bracket{Lo: 10, Hi: 0})
			Expect(err).To(MatchError(dynamo.ErrInvalidBracket))
		})

		It("reports an exhausted iteration budget as a result", func() {
			cfg.Root = roots.Options{MaxIter: 2}
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			state, err := s.Compute(ctx, solver.DefaultBracket)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Converged).To(BeFalse())
			Expect(state.Iterations).To(Equal(2))
			Expect(state.Err()).To(MatchError(dynamo.ErrNonConvergence))
			Expect(state.Trajectory).NotTo(BeEmpty())
		})

		It("aborts on a numerical failure", func() {
			cfg.Integrator = integrators.NewDormandPrince(dynamo.Tolerances{Abs: 1e-11, Rel: 1e-10, MaxSteps: 20})
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			state, err := s.Compute(ctx, solver.DefaultBracket)
			Expect(err).To(MatchError(dynamo.ErrNumericalFailure))
			Expect(state).To(BeNil())
		})

		It("stops when the context is canceled", func() {
			s, err := solver.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			canceled, cancel := context.WithCancel(ctx)
			cancel()
			_, err = s.Compute(canceled, solver.DefaultBracket)
			Expect(err).To(MatchError(context.Canceled))
		})

		It("rejects an invalid domain", func() {
			cfg.Domain = dynamo.Domain{Min: 1, Max: 0}
			_, err := solver.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidDomain))
		})
	})

	Describe("logging", func() {
		It("logs every evaluation at debug level", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			s, err := solver.New(cfg, solver.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			state, err := s.Compute(ctx, solver.DefaultBracket)
			Expect(err).NotTo(HaveOccurred())

			out := buf.String()
			Expect(out).To(ContainSubstring("msg=shoot"))
			Expect(out).To(ContainSubstring("msg=converged"))
			Expect(bytes.Count(buf.Bytes(), []byte("msg=shoot"))).To(Equal(state.FunctionCalls))
		})
	})

	Describe("SolveAll", func() {
		It("solves independent brackets and keeps their order", func() {
			brackets := []solver.Bracket{{Lo: 30, Hi: 60}, {Lo: 0, Hi: 10}, {Lo: 10, Hi: 20}}

			states, err := solver.SolveAll(ctx, cfg, brackets)
			Expect(err).NotTo(HaveOccurred())
			Expect(states).To(HaveLen(3))
			Expect(states[0].Energy).To(BeNumerically("~", level(3), 1e-6))
			Expect(states[1].Energy).To(BeNumerically("~", level(1), 1e-6))
			Expect(states[2].Energy).To(BeNumerically("~", level(2), 1e-6))
			for i, st := range states {
				Expect(st.Bracket).To(Equal(brackets[i]))
			}
		})

		It("fails when any bracket is invalid", func() {
			_, err := solver.SolveAll(ctx, cfg, []solver.Bracket{{Lo: 0, Hi: 10}, {Lo: 0, Hi: 4}})
			Expect(err).To(MatchError(dynamo.ErrInvalidBracket))
		})
	})
})
