package tacklaw

import (
	"fmt"
	"math"
)

// SolveConfig bounds one fixed-point solve.
type SolveConfig struct {
	// Tol stops the iteration once successive iterates differ by less
	// than this (absolute).
	Tol float64 `yaml:"tol"`

	// MaxIter caps the iteration count; hitting it is ErrConvergenceFailure.
	MaxIter int `yaml:"max_iter"`

	// Eval bounds the kernel evaluations inside each iteration.
	Eval EvalConfig `yaml:"eval"`
}

// DefaultSolveConfig matches the published model runs: 1e-10 tolerance,
// generous iteration cap. On the default grids the slowest point converges
// in under 40 iterations.
func DefaultSolveConfig() SolveConfig {
	return SolveConfig{
		Tol:     1e-10,
		MaxIter: 200,
		Eval:    DefaultEvalConfig(),
	}
}

// Validate checks the solve bounds, including that the kernel precision
// leaves headroom below the tolerance.
func (c SolveConfig) Validate() error {
	if math.IsNaN(c.Tol) || math.IsInf(c.Tol, 0) || c.Tol <= 0 {
		return fmt.Errorf("solve config: tolerance %g must be a positive number\n"+
			"  Action: use DefaultSolveConfig().Tol (1e-10) or similar: %w", c.Tol, ErrDomain)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("solve config: MaxIter=%d leaves no iterations\n"+
			"  Action: raise MaxIter (DefaultSolveConfig uses 200): %w", c.MaxIter, ErrDomain)
	}
	if err := c.Eval.Validate(); err != nil {
		return err
	}
	need := int(math.Ceil(-math.Log10(c.Tol))) + 2
	if c.Eval.Digits < need {
		return fmt.Errorf("solve config: %d kernel digits cannot resolve tolerance %g\n"+
			"  Need: at least %d digits\n"+
			"  Action: raise Eval.Digits or loosen Tol: %w", c.Eval.Digits, c.Tol, need, ErrDomain)
	}
	return nil
}

// denominatorFloor guards the update 1/(1-(1-k)·I). The model keeps I
// strictly inside the unit interval on every observed grid, which bounds
// the denominator away from zero by at least k; the floor only trips if an
// iterate escapes that regime.
const denominatorFloor = 1e-14

// EffectiveGamma iterates the self-consistent amplification map
//
//	Γ_{m+1} = 1 / (1 - (1-k)·I(n, ν, Γ_m))
//
// from Γ_0 = 1 until two successive iterates agree within cfg.Tol. It
// returns the converged amplification and the number of iterations spent.
//
// The iteration runs in float64; the arbitrary-precision machinery lives
// inside the kernel evaluations, which hand back one rounded scalar per
// step. Failures come wrapped in *SolveError carrying the (n, ν)
// coordinates.
func EffectiveGamma(n, k, nu float64, cfg SolveConfig) (float64, int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, 0, err
	}
	if math.IsNaN(k) || k <= 0 || k > 1 {
		return 0, 0, &SolveError{N: n, Nu: nu, Err: fmt.Errorf(
			"stress ratio k=%g outside (0, 1]: %w", k, ErrDomain)}
	}

	gamma := 1.0
	for iter := 1; iter <= cfg.MaxIter; iter++ {
		val, err := IntegralValue(n, nu, gamma, cfg.Eval)
		if err != nil {
			return 0, iter - 1, &SolveError{N: n, Nu: nu, Iterations: iter - 1, Err: err}
		}
		next, err := amplificationStep(val, k)
		if err != nil {
			return 0, iter, &SolveError{N: n, Nu: nu, Iterations: iter, Err: err}
		}
		if next <= 0 || math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, iter, &SolveError{N: n, Nu: nu, Iterations: iter, Err: fmt.Errorf(
				"iterate Γ=%g left the physical range: %w", next, ErrNumericalDivergence)}
		}
		if math.Abs(next-gamma) < cfg.Tol {
			return next, iter, nil
		}
		gamma = next
	}
	return 0, cfg.MaxIter, &SolveError{N: n, Nu: nu, Iterations: cfg.MaxIter, Err: fmt.Errorf(
		"iterates still moving after %d iterations at tol=%g: %w", cfg.MaxIter, cfg.Tol, ErrConvergenceFailure)}
}

// amplificationStep applies the fixed-point update to one kernel value.
func amplificationStep(val, k float64) (float64, error) {
	prod := (1 - k) * val
	den := 1 - prod
	if math.Abs(den) < denominatorFloor*(1+math.Abs(prod)) {
		return 0, fmt.Errorf("update denominator 1-(1-k)·I = %g at I=%g, k=%g: %w",
			den, val, k, ErrDivisionSingularity)
	}
	return 1 / den, nil
}
