package tacklaw

import (
	"errors"
	"math"
	"testing"
)

// TestEffectiveGamma_Golden pins the solver against independently computed
// fixed points at k = 0.10 across the exponent family and the frequency
// extremes of the published grid.
func TestEffectiveGamma_Golden(t *testing.T) {
	cases := []struct {
		name  string
		n, nu float64
		want  float64
		tol   float64
	}{
		{"n02_nu1", 0.2, 1, 1.2415473691680207, 1e-9},
		{"n04_nu1", 0.4, 1, 1.4670214552018, 1e-9},
		{"n16_nu1", 1.6, 1, 2.5453917004983, 1e-8},
		{"n02_grid_floor", 0.2, 1e-2, 1.0056406534319, 1e-9},
		{"n02_grid_ceiling", 0.2, 1e8, 7.7623644968067, 1e-8},
	}
	for _, tc := range cases {
		gamma, iters, err := EffectiveGamma(tc.n, 0.10, tc.nu, DefaultSolveConfig())
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if math.Abs(gamma-tc.want) > tc.tol {
			t.Errorf("❌ %s: Γ_eff = %.14f, expected %.14f", tc.name, gamma, tc.want)
		} else {
			t.Logf("✓ %s: Γ_eff = %.12f in %d iterations", tc.name, gamma, iters)
		}
		if iters < 1 || iters > DefaultSolveConfig().MaxIter {
			t.Errorf("❌ %s: implausible iteration count %d", tc.name, iters)
		}
	}
}

// TestEffectiveGamma_SaturatedBond verifies the k=1 degenerate case: the
// update map collapses to the constant 1, so the seed is already the fixed
// point and the solve finishes on the first iteration.
func TestEffectiveGamma_SaturatedBond(t *testing.T) {
	gamma, iters, err := EffectiveGamma(0.6, 1, 5, DefaultSolveConfig())
	if err != nil {
		t.Fatalf("k=1 solve: %v", err)
	}
	if gamma != 1.0 {
		t.Errorf("❌ Γ_eff = %.17g, expected exactly 1.0", gamma)
	}
	if iters != 1 {
		t.Errorf("❌ converged in %d iterations, expected 1", iters)
	}
	t.Logf("✓ Saturated bond: Γ_eff = 1 on the first iteration")
}

// TestEffectiveGamma_Deterministic verifies two identical solves produce
// bit-identical results.
func TestEffectiveGamma_Deterministic(t *testing.T) {
	g1, it1, err := EffectiveGamma(0.4, 0.10, 100, DefaultSolveConfig())
	if err != nil {
		t.Fatal(err)
	}
	g2, it2, err := EffectiveGamma(0.4, 0.10, 100, DefaultSolveConfig())
	if err != nil {
		t.Fatal(err)
	}
	if g1 != g2 || it1 != it2 {
		t.Errorf("❌ Reruns disagree: (%.17g, %d) vs (%.17g, %d)", g1, it1, g2, it2)
	}
	t.Logf("✓ Deterministic: Γ_eff = %.15f both times (%d iterations)", g1, it1)
}

// TestEffectiveGamma_BelowCeiling verifies the amplification saturates
// strictly under 1/k even where the curve has flattened.
func TestEffectiveGamma_BelowCeiling(t *testing.T) {
	const k = 0.10
	gamma, _, err := EffectiveGamma(1.6, k, 1e8, DefaultSolveConfig())
	if err != nil {
		t.Fatal(err)
	}
	if gamma >= 1/k {
		t.Errorf("❌ Γ_eff = %.12f reached the 1/k = %g ceiling", gamma, 1/k)
	}
	if gamma < 9.99 {
		t.Errorf("❌ Γ_eff = %.12f unexpectedly far from the ceiling at ν=1e8", gamma)
	}
	t.Logf("✓ High-rate plateau: Γ_eff = %.12f < 1/k = %g", gamma, 1/k)
}

// TestEffectiveGamma_StressRatioDomain verifies k is screened before any
// kernel work.
func TestEffectiveGamma_StressRatioDomain(t *testing.T) {
	for _, k := range []float64{0, -0.1, 1.5, math.NaN()} {
		_, _, err := EffectiveGamma(0.4, k, 1, DefaultSolveConfig())
		if !errors.Is(err, ErrDomain) {
			t.Errorf("❌ k=%g: expected ErrDomain, got %v", k, err)
		}
	}
	t.Logf("✓ Stress ratios outside (0, 1] rejected")
}

// TestEffectiveGamma_KernelDomainPropagates verifies a kernel rejection
// surfaces as a SolveError that still classifies as ErrDomain.
func TestEffectiveGamma_KernelDomainPropagates(t *testing.T) {
	_, _, err := EffectiveGamma(1, 0.10, 1, DefaultSolveConfig())
	if !errors.Is(err, ErrDomain) {
		t.Fatalf("❌ n=1: expected ErrDomain, got %v", err)
	}

	var solveErr *SolveError
	if !errors.As(err, &solveErr) {
		t.Fatalf("❌ expected *SolveError, got %T", err)
	}
	if solveErr.N != 1 || solveErr.Nu != 1 {
		t.Errorf("❌ SolveError coordinates (n=%g, ν=%g), expected (1, 1)", solveErr.N, solveErr.Nu)
	}
	t.Logf("✓ Kernel rejection carries coordinates: %v", err)
}

// TestEffectiveGamma_IterationCap verifies an underpowered budget reports
// ErrConvergenceFailure with the spent iteration count.
func TestEffectiveGamma_IterationCap(t *testing.T) {
	cfg := DefaultSolveConfig()
	cfg.MaxIter = 1 // the map moves ~0.27 on the first step at these inputs

	_, iters, err := EffectiveGamma(0.2, 0.10, 1, cfg)
	if !errors.Is(err, ErrConvergenceFailure) {
		t.Fatalf("❌ expected ErrConvergenceFailure, got %v", err)
	}
	if iters != 1 {
		t.Errorf("❌ reported %d iterations, expected 1", iters)
	}

	var solveErr *SolveError
	if !errors.As(err, &solveErr) {
		t.Fatalf("❌ expected *SolveError, got %T", err)
	}
	if solveErr.Iterations != 1 {
		t.Errorf("❌ SolveError.Iterations = %d, expected 1", solveErr.Iterations)
	}
	t.Logf("✓ Iteration cap reported explicitly: %v", err)
}

// TestAmplificationStep_Update verifies the bare update map: above 1 for
// any dissipation, exactly 1 when the bond saturates.
func TestAmplificationStep_Update(t *testing.T) {
	for _, val := range []float64{0.01, 0.24, 0.83, 0.999} {
		next, err := amplificationStep(val, 0.10)
		if err != nil {
			t.Fatalf("step(I=%g): %v", val, err)
		}
		if next <= 1 {
			t.Errorf("❌ step(I=%g) = %.12f, expected above 1", val, next)
		}
	}

	next, err := amplificationStep(0.5, 1)
	if err != nil {
		t.Fatalf("step at k=1: %v", err)
	}
	if next != 1 {
		t.Errorf("❌ step at k=1 = %.17g, expected exactly 1", next)
	}
	t.Logf("✓ Update map behaves on the physical range")
}

// TestAmplificationStep_Singularity verifies the denominator guard: a
// kernel value pinned at 1/(1-k) zeroes the denominator and must surface
// as ErrDivisionSingularity, never as Inf.
func TestAmplificationStep_Singularity(t *testing.T) {
	const k = 0.10
	_, err := amplificationStep(1/(1-k), k)
	if !errors.Is(err, ErrDivisionSingularity) {
		t.Fatalf("❌ expected ErrDivisionSingularity, got %v", err)
	}
	t.Logf("✓ Vanishing denominator caught: %v", err)

	// Just past the singularity the denominator is healthy again.
	next, err := amplificationStep(1.2/(1-k), k)
	if err != nil {
		t.Fatalf("step past singularity: %v", err)
	}
	if next >= 0 {
		t.Errorf("❌ step past the pole = %.12f, expected negative branch", next)
	}
}

// TestSolveConfig_Validate verifies the bounds screening, including the
// precision-versus-tolerance headroom rule.
func TestSolveConfig_Validate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*SolveConfig)
	}{
		{"zero_tol", func(c *SolveConfig) { c.Tol = 0 }},
		{"negative_tol", func(c *SolveConfig) { c.Tol = -1e-10 }},
		{"nan_tol", func(c *SolveConfig) { c.Tol = math.NaN() }},
		{"no_iterations", func(c *SolveConfig) { c.MaxIter = 0 }},
		{"digits_below_tol", func(c *SolveConfig) { c.Eval.Digits = 10 }}, // 1e-10 needs 12
	}
	for _, tc := range cases {
		cfg := DefaultSolveConfig()
		tc.mod(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrDomain) {
			t.Errorf("❌ %s: expected ErrDomain, got %v", tc.name, err)
		}
	}

	if err := DefaultSolveConfig().Validate(); err != nil {
		t.Errorf("❌ default config rejected: %v", err)
	}
	t.Logf("✓ Solve config validation catches bad bounds and passes the default")
}
