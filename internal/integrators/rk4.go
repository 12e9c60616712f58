package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/qwell/internal/dynamo"
)

// RK4 is the classical fixed-step method. Integrate uses Tol.MaxStep as the
// step size. Step reuses scratch buffers held on the receiver, so a single
// RK4 must not be stepped from several goroutines; Integrate allocates its
// own buffers and is safe for concurrent use.
type RK4 struct {
	Tol dynamo.Tolerances

	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4(tol dynamo.Tolerances) *RK4 {
	return &RK4{Tol: tol}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(sys dynamo.System, x float64, y dynamo.State, h float64) dynamo.State {
	n := len(y)
	r.ensureScratch(n)

	k1 := sys.Derive(x, y)
	copy(r.k1, k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*0.5*r.k1[i]
	}
	k2 := sys.Derive(x+h*0.5, r.scratch)
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*0.5*r.k2[i]
	}
	k3 := sys.Derive(x+h*0.5, r.scratch)
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*r.k3[i]
	}
	k4 := sys.Derive(x+h, r.scratch)
	copy(r.k4, k4)

	result := make(dynamo.State, n)
	h6 := h / 6.0
	for i := 0; i < n; i++ {
		result[i] = y[i] + h6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}

func (r *RK4) Integrate(sys dynamo.System, span dynamo.Domain, y0 dynamo.State, obs dynamo.Observer) (dynamo.Stats, error) {
	var stats dynamo.Stats

	tol, err := r.Tol.Resolve(span)
	if err != nil {
		return stats, err
	}
	if len(y0) != sys.Dim() {
		return stats, fmt.Errorf("%w: state has %d components, system has %d", dynamo.ErrDimensionMismatch, len(y0), sys.Dim())
	}

	stepper := &RK4{}
	h := tol.MaxStep
	steps := int(math.Ceil(span.Width()/h - 1e-9))
	if steps > tol.MaxSteps {
		return stats, dynamo.Failure(0, span.Min, y0, dynamo.ErrTooManySteps)
	}

	x := span.Min
	y := y0.Clone()
	if !y.IsValid() {
		return stats, dynamo.Failure(0, x, y, dynamo.ErrNonFinite)
	}
	if obs != nil {
		obs.OnStep(x, y)
	}

	for i := 0; i < steps; i++ {
		step := h
		last := i == steps-1
		if last {
			step = span.Max - x
		}

		y = stepper.Step(sys, x, y, step)
		stats.Evaluations += 4
		if !y.IsValid() {
			return stats, dynamo.Failure(i, x, y, dynamo.ErrNonFinite)
		}

		if last {
			x = span.Max
		} else {
			x = span.Min + float64(i+1)*h
		}
		stats.Steps++
		stats.LastStep = step
		if obs != nil {
			obs.OnStep(x, y)
		}
	}

	return stats, nil
}
