package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for shooting operations.
var (
	// ErrInvalidBracket indicates an energy bracket without a residual sign change.
	ErrInvalidBracket = errors.New("dynamo: invalid bracket (no sign change in residual)")

	// ErrNumericalFailure indicates an integration run that could not be completed.
	ErrNumericalFailure = errors.New("dynamo: numerical failure")

	// ErrNonConvergence indicates the root finder exhausted its iteration budget.
	ErrNonConvergence = errors.New("dynamo: root search did not converge")

	// ErrInvalidDomain indicates a domain with min >= max or non-finite bounds.
	ErrInvalidDomain = errors.New("dynamo: invalid domain")

	// ErrInvalidTolerance indicates a tolerance or step limit outside valid range.
	ErrInvalidTolerance = errors.New("dynamo: invalid tolerance")

	// ErrStepTooSmall indicates the adaptive step fell below the minimum.
	ErrStepTooSmall = errors.New("dynamo: adaptive step below minimum")

	// ErrTooManySteps indicates the step budget was exhausted before the end of the domain.
	ErrTooManySteps = errors.New("dynamo: step budget exhausted")

	// ErrNonFinite indicates a NaN or Inf appeared in the state or error estimate.
	ErrNonFinite = errors.New("dynamo: non-finite value (NaN or Inf detected)")

	// ErrDimensionMismatch indicates a state whose length differs from the system dimension.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// NumericalError wraps an integration failure with the point where it happened.
// It matches both its precise cause and ErrNumericalFailure under errors.Is.
type NumericalError struct {
	Step    int
	X       float64
	State   State
	Wrapped error
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("step %d (x=%.6g): %v", e.Step, e.X, e.Wrapped)
}

func (e *NumericalError) Unwrap() error {
	return e.Wrapped
}

func (e *NumericalError) Is(target error) bool {
	return target == ErrNumericalFailure
}

// Failure builds a NumericalError for the given cause.
func Failure(step int, x float64, y State, cause error) *NumericalError {
	return &NumericalError{Step: step, X: x, State: y.Clone(), Wrapped: cause}
}
