// Package dynamo provides the core primitives shared by the shooting solver.
//
// The package defines the contracts for integrating ordinary differential
// equations over a one-dimensional spatial domain:
//
//   - [State]: vector representing the ODE state at one point
//   - [System]: interface for ODE systems (dY/dx = f(x, Y))
//   - [Integrator]: drives a [System] across a [Domain]
//   - [Observer]: receives every accepted sample of an integration run
//   - [Tolerances] and [Stats]: step control inputs and run diagnostics
//
// # Example
//
//	sys := physics.NewSchrodinger(well).Bind(energy)
//	integ := integrators.NewDormandPrince(dynamo.DefaultTolerances())
//	stats, err := integ.Integrate(sys, dynamo.Domain{Min: 0, Max: 1}, y0, obs)
//
// # Errors
//
// Every failure of the numerical layer wraps one of the sentinel errors in
// errors.go so callers can test with [errors.Is]:
// [ErrInvalidBracket], [ErrNumericalFailure] and [ErrNonConvergence] form the
// public taxonomy; the remaining sentinels refine [ErrNumericalFailure].
//
// # Thread Safety
//
// Integrators hold configuration only and allocate their buffers per call, so
// one instance can serve concurrent Integrate calls.
package dynamo
