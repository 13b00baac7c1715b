package tacklaw

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the evaluator, the kernel, and the solver.
// Callers classify with errors.Is; every error returned by this package
// wraps exactly one of these sentinels.
var (
	// ErrDomain marks inputs outside the model domain: a non-finite
	// parameter, an exponent at or beyond a kernel pole (n = 1 or an
	// integer n ≥ 2), a non-positive frequency, or a raw series whose
	// denominator parameter sits on a non-positive integer.
	ErrDomain = errors.New("tacklaw: parameter outside model domain")

	// ErrNumericalDivergence marks a series evaluation that exhausted its
	// term cap or its precision-refinement budget without stabilizing.
	ErrNumericalDivergence = errors.New("tacklaw: series failed to stabilize at target precision")

	// ErrDivisionSingularity marks a fixed-point update whose denominator
	// 1 - (1-k)·I collapsed below the guard floor.
	ErrDivisionSingularity = errors.New("tacklaw: fixed-point denominator vanished")

	// ErrConvergenceFailure marks a fixed-point iteration that hit its
	// iteration cap before successive iterates came within tolerance.
	ErrConvergenceFailure = errors.New("tacklaw: iteration cap reached before convergence")
)

// SolveError records where a fixed-point solve failed. It wraps the
// underlying failure kind, so errors.Is(err, ErrConvergenceFailure) and
// friends see through it.
type SolveError struct {
	N          float64 // tail exponent at the failing point
	Nu         float64 // dimensionless frequency at the failing point
	Iterations int     // iterations completed before the failure
	Err        error   // underlying failure, wraps a sentinel above
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("effective amplification at n=%g, ν=%g failed after %d iteration(s): %v",
		e.N, e.Nu, e.Iterations, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }
