package tacklaw

import (
	"errors"
	"fmt"
	"testing"
)

// AssertionConfig contains thresholds for amplification-curve properties.
type AssertionConfig struct {
	// Allowed backward step between neighboring grid points
	MonotoneSlack float64

	// Allowed relative excursion outside the [1, 1/k] band
	AmplificationSlack float64

	// Slowest acceptable per-point solve
	MaxIterations int
}

// DefaultAssertionConfig returns thresholds calibrated on the published
// grids, where the solver converges everywhere and the curves rise cleanly.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		MonotoneSlack:      1e-9, // a 1e-10 solve tolerance cannot wobble more than this
		AmplificationSlack: 1e-6, // relative overshoot of the 1/k ceiling
		MaxIterations:      150,  // default cap is 200; healthy points stay well under
	}
}

// AssertCurveMonotone verifies the amplification rises with the grid
// coordinate.
//
// Mathematical property:
//
//	Γ(x_{i+1}) ≥ Γ(x_i) - slack
//
// The kernel is monotone in ν, so a genuine dip means a point converged to
// the wrong value, not that the model wiggles.
func AssertCurveMonotone(t *testing.T, curve Curve, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	for i := 1; i < len(curve.Points); i++ {
		prev, curr := curve.Points[i-1], curve.Points[i]
		if curr.Gamma < prev.Gamma-cfg.MonotoneSlack {
			failures = append(failures, fmt.Sprintf(
				"  x=%.6g→%.6g: Γ %.12f → %.12f (dropped %.3g)",
				prev.X, curr.X, prev.Gamma, curr.Gamma, prev.Gamma-curr.Gamma))
		}
	}

	if len(failures) > 0 {
		t.Errorf("Curve n=%g not monotone:\n%s", curve.N, failures)
	}

	t.Logf("✓ Monotone: n=%g rises over %d points (slack %.1g)", curve.N, len(curve.Points), cfg.MonotoneSlack)
}

// AssertAmplificationBounds verifies every sample sits in the physical band.
//
// Mathematical property:
//
//	1 ≤ Γ_eff < 1/k
//
// The lower end is the rigid (no dissipation) limit; the upper end is the
// fixed point of the update map when the kernel saturates at I = 1.
func AssertAmplificationBounds(t *testing.T, curve Curve, k float64, cfg AssertionConfig) {
	t.Helper()

	floor := 1 - cfg.AmplificationSlack
	ceil := (1 / k) * (1 + cfg.AmplificationSlack)

	var failures []string
	for _, p := range curve.Points {
		if p.Gamma < floor || p.Gamma > ceil {
			failures = append(failures, fmt.Sprintf(
				"  x=%.6g: Γ=%.12f outside [%.6f, %.6f]", p.X, p.Gamma, floor, ceil))
		}
	}

	if len(failures) > 0 {
		t.Errorf("Curve n=%g escapes the physical band:\n%s", curve.N, failures)
	}

	t.Logf("✓ Bounded: n=%g stays inside [1, 1/k=%g]", curve.N, 1/k)
}

// AssertCurveComplete verifies no grid point went missing from the curve.
func AssertCurveComplete(t *testing.T, curve Curve, gridPoints int) {
	t.Helper()

	if len(curve.Points) != gridPoints {
		t.Errorf("Curve n=%g holds %d of %d grid points\n"+
			"Missing points correspond to recorded failures; check Report.Failures.",
			curve.N, len(curve.Points), gridPoints)
		return
	}

	t.Logf("✓ Complete: n=%g covers all %d grid points", curve.N, gridPoints)
}

// AssertNoFailures verifies the sweep converged everywhere.
func AssertNoFailures(t *testing.T, report *Report) {
	t.Helper()

	if report.HasFailures() {
		shown := report.Failures
		if len(shown) > 5 {
			shown = shown[:5]
		}
		var lines []string
		for _, f := range shown {
			lines = append(lines, fmt.Sprintf("  n=%g x=%.6g (index %d): %v", f.N, f.X, f.Index, f.Err))
		}
		t.Errorf("%d point(s) failed:\n%s", len(report.Failures), lines)
		return
	}

	t.Logf("✓ No failures: all %d points converged", report.Stats().Converged)
}

// AssertIterationBudget verifies no solve crawled toward its cap.
func AssertIterationBudget(t *testing.T, report *Report, cfg AssertionConfig) {
	t.Helper()

	stats := report.Stats()
	if stats.MaxIterations > cfg.MaxIterations {
		t.Errorf("Slowest solve took %d iterations (budget: %d)\n"+
			"The fixed point is drifting toward the iteration cap; check k and the grid bounds.",
			stats.MaxIterations, cfg.MaxIterations)
	}

	t.Logf("✓ Iteration budget: max %d, mean %.1f (budget %d)",
		stats.MaxIterations, stats.MeanIterations, cfg.MaxIterations)
}

// AssertSweepHealthy runs all curve-family assertions with default config.
func AssertSweepHealthy(t *testing.T, report *Report, k float64) {
	t.Helper()

	cfg := DefaultAssertionConfig()

	t.Run("NoFailures", func(t *testing.T) {
		AssertNoFailures(t, report)
	})

	t.Run("IterationBudget", func(t *testing.T) {
		AssertIterationBudget(t, report, cfg)
	})

	for _, curve := range report.Curves {
		curve := curve
		t.Run(fmt.Sprintf("Monotone_n=%g", curve.N), func(t *testing.T) {
			AssertCurveMonotone(t, curve, cfg)
		})
		t.Run(fmt.Sprintf("Bounds_n=%g", curve.N), func(t *testing.T) {
			AssertAmplificationBounds(t, curve, k, cfg)
		})
	}
}

// PrintSweepSummary outputs a per-curve digest to the test log.
func PrintSweepSummary(t *testing.T, report *Report) {
	t.Helper()

	stats := report.Stats()

	t.Logf("\n=== Sweep Summary ===")
	t.Logf("  n      points   Γ(min)        Γ(max)        max iters")
	t.Logf("  -----  -------  ------------  ------------  ---------")
	for _, c := range report.Curves {
		if len(c.Points) == 0 {
			t.Logf("  %-5g  %7d  (no converged points)", c.N, 0)
			continue
		}
		lo, hi := c.Points[0].Gamma, c.Points[0].Gamma
		maxIt := 0
		for _, p := range c.Points {
			if p.Gamma < lo {
				lo = p.Gamma
			}
			if p.Gamma > hi {
				hi = p.Gamma
			}
			if p.Iterations > maxIt {
				maxIt = p.Iterations
			}
		}
		t.Logf("  %-5g  %7d  %12.9f  %12.9f  %9d", c.N, len(c.Points), lo, hi, maxIt)
	}

	t.Logf("\nInterpretation:")
	if stats.Failed == 0 {
		t.Logf("  ✓ Every grid point converged (%d total)", stats.Converged)
	} else {
		t.Logf("  ✗ %d of %d points failed", stats.Failed, stats.Points)
		for i, f := range report.Failures {
			if i == 3 {
				t.Logf("    ... and %d more", len(report.Failures)-3)
				break
			}
			var kind string
			switch {
			case errors.Is(f.Err, ErrDomain):
				kind = "domain"
			case errors.Is(f.Err, ErrNumericalDivergence):
				kind = "divergence"
			case errors.Is(f.Err, ErrDivisionSingularity):
				kind = "singularity"
			case errors.Is(f.Err, ErrConvergenceFailure):
				kind = "convergence"
			default:
				kind = "unknown"
			}
			t.Logf("    n=%g x=%.6g: %s", f.N, f.X, kind)
		}
	}
	if stats.MaxIterations <= 50 {
		t.Logf("  ✓ Fast convergence (slowest point: %d iterations)", stats.MaxIterations)
	} else {
		t.Logf("  ⚠ Slow convergence (slowest point: %d iterations)", stats.MaxIterations)
	}
}
