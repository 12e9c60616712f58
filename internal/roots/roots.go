// Package roots finds a zero of a scalar function inside a sign-change
// bracket. The function may fail; a failed evaluation aborts the search.
package roots

import (
	"fmt"
	"math"

	"github.com/san-kum/qwell/internal/dynamo"
)

// Func is the objective. A returned error is never replaced by a guessed value.
type Func func(x float64) (float64, error)

type Options struct {
	XTol    float64 `json:"xtol" yaml:"xtol"`
	RTol    float64 `json:"rtol" yaml:"rtol"`
	MaxIter int     `json:"max_iter" yaml:"max_iter"`
}

const (
	DefaultXTol    = 2e-12
	DefaultRTol    = 4 * 2.220446049250313e-16
	DefaultMaxIter = 100
)

func DefaultOptions() Options {
	return Options{XTol: DefaultXTol, RTol: DefaultRTol, MaxIter: DefaultMaxIter}
}

func (o Options) withDefaults() Options {
	if o.XTol <= 0 {
		o.XTol = DefaultXTol
	}
	if o.RTol <= 0 {
		o.RTol = DefaultRTol
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	return o
}

// Result describes a finished search. Converged is false when the iteration
// budget ran out; Root then holds the best estimate reached.
type Result struct {
	Root       float64 `json:"root"`
	FRoot      float64 `json:"f_root"`
	Converged  bool    `json:"converged"`
	Iterations int     `json:"iterations"`
	FuncCalls  int     `json:"func_calls"`
	Lo         float64 `json:"lo"`
	Hi         float64 `json:"hi"`
}

// BracketError reports endpoints whose residuals share a sign.
type BracketError struct {
	Lo, Hi   float64
	FLo, FHi float64
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("%v: f(%g)=%g and f(%g)=%g", dynamo.ErrInvalidBracket, e.Lo, e.FLo, e.Hi, e.FHi)
}

func (e *BracketError) Unwrap() error { return dynamo.ErrInvalidBracket }

type counter struct {
	f     Func
	calls int
}

func (c *counter) eval(x float64) (float64, error) {
	c.calls++
	v, err := c.f(x)
	if err != nil {
		return 0, fmt.Errorf("evaluate at %.12g: %w", x, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("evaluate at %.12g: %w", x, dynamo.Failure(c.calls, x, nil, dynamo.ErrNonFinite))
	}
	return v, nil
}

func checkBounds(lo, hi float64) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return fmt.Errorf("%w: bounds must be finite, got [%g, %g]", dynamo.ErrInvalidBracket, lo, hi)
	}
	if lo >= hi {
		return fmt.Errorf("%w: lo must be below hi, got [%g, %g]", dynamo.ErrInvalidBracket, lo, hi)
	}
	return nil
}

// endpoints evaluates both bounds and settles the trivial cases. done is
// true when one endpoint is already an exact root.
func endpoints(c *counter, lo, hi float64) (flo, fhi float64, res Result, done bool, err error) {
	res = Result{Lo: lo, Hi: hi}
	if flo, err = c.eval(lo); err != nil {
		return
	}
	if fhi, err = c.eval(hi); err != nil {
		return
	}
	switch {
	case flo == 0:
		res.Root, res.Converged, done = lo, true, true
	case fhi == 0:
		res.Root, res.Converged, done = hi, true, true
	case math.Signbit(flo) == math.Signbit(fhi):
		err = &BracketError{Lo: lo, Hi: hi, FLo: flo, FHi: fhi}
	}
	res.FuncCalls = c.calls
	return
}
