package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/qwell/internal/dynamo"
)

func TestRK4Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewRK4(dynamo.Tolerances{})

	y := dynamo.State{1.0, 0.0}
	h := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		y = integ.Step(dyn, float64(i)*h, y, h)
	}

	expectedX := math.Cos(float64(steps) * h)
	expectedV := -math.Sin(float64(steps) * h)

	if math.Abs(y[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", y[0], expectedX)
	}

	if math.Abs(y[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", y[1], expectedV)
	}
}

func TestRK4Integrate(t *testing.T) {
	integ := NewRK4(dynamo.Tolerances{Abs: 1, MaxStep: 0.001})
	rec := &recorder{}
	span := dynamo.Domain{Min: 0, Max: 1}

	stats, err := integ.Integrate(&harmonicOscillator{}, span, dynamo.State{0, 1}, rec)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}

	if stats.Steps != 1000 {
		t.Errorf("expected 1000 steps, got %d", stats.Steps)
	}
	if rec.xs[len(rec.xs)-1] != span.Max {
		t.Errorf("last sample at %g, want %g", rec.xs[len(rec.xs)-1], span.Max)
	}

	final := rec.ys[len(rec.ys)-1]
	if math.Abs(final[0]-math.Sin(1)) > 1e-10 {
		t.Errorf("got %.12f, expected %.12f", final[0], math.Sin(1))
	}
}

func TestRK4MatchesDormandPrince(t *testing.T) {
	span := dynamo.Domain{Min: 0, Max: 2}
	fixed, adaptive := &recorder{}, &recorder{}

	if _, err := NewRK4(dynamo.Tolerances{Abs: 1, MaxStep: 1e-3}).Integrate(&harmonicOscillator{}, span, dynamo.State{0, 1}, fixed); err != nil {
		t.Fatal(err)
	}
	if _, err := NewDormandPrince(dynamo.DefaultTolerances()).Integrate(&harmonicOscillator{}, span, dynamo.State{0, 1}, adaptive); err != nil {
		t.Fatal(err)
	}

	a := fixed.ys[len(fixed.ys)-1][0]
	b := adaptive.ys[len(adaptive.ys)-1][0]
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("rk4 %.12f and dopri5 %.12f disagree", a, b)
	}
}

func TestRK4Failures(t *testing.T) {
	integ := NewRK4(dynamo.Tolerances{Abs: 1, MaxStep: 0.01, MaxSteps: 10})
	_, err := integ.Integrate(&harmonicOscillator{}, dynamo.Domain{Min: 0, Max: 1}, dynamo.State{0, 1}, nil)
	if !errors.Is(err, dynamo.ErrTooManySteps) {
		t.Errorf("expected ErrTooManySteps, got %v", err)
	}

	integ = NewRK4(dynamo.DefaultTolerances())
	_, err = integ.Integrate(&poisoned{at: 0.2}, dynamo.Domain{Min: 0, Max: 1}, dynamo.State{0, 1}, nil)
	if !errors.Is(err, dynamo.ErrNonFinite) || !errors.Is(err, dynamo.ErrNumericalFailure) {
		t.Errorf("expected non-finite numerical failure, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"", "dopri5", "rk45", "rk4"} {
		if _, err := New(name, dynamo.DefaultTolerances()); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("euler", dynamo.DefaultTolerances()); err == nil {
		t.Error("expected error for unknown integrator")
	}
	if got := List(); len(got) != 3 {
		t.Errorf("expected 3 integrators, got %v", got)
	}
}
