package tacklaw

import (
	"fmt"
	"math"

	"github.com/ericlagergren/decimal"
	dmath "github.com/ericlagergren/decimal/math"
)

// The dissipation integral has the closed form
//
//	I(n, ν, Γ) = pre · (term1 + term2)
//
//	pre   = 2^(-3-2n) · π^(-3/2-n) / ((n-1)·ν)
//	z     = -(Γ / (4πν))²
//	term1 = -4^(n+1) · π^(n+1/2) · [Γ - 2(n-1)πν · ₁F₂(-1/2; 1/2-n/2, 1-n/2; z)]
//	term2 = 2π · (Γ/ν)^n · [4πν · Γ(1-n/2) · ₁F̃₂((n-1)/2; 1/2, 1+n/2; z)
//	                        + Γ · Γ(3/2-n/2) · ₁F̃₂(n/2; 3/2, (3+n)/2; z)]
//
// Where:
//   - n: power-law tail exponent of the relaxation spectrum
//   - ν: dimensionless frequency (loading rate relative to the material clock)
//   - Γ: current adhesion amplification estimate
//
// The two regularized series absorb the Γ(1/2-n/2)-type poles that make the
// raw form blow up for n above 1. Everything assembles in decimal arithmetic;
// the only float64 conversion happens on the final scalar.

// kernelGuardDigits pads the assembly precision over the requested digits.
const kernelGuardDigits = 15

// IntegralValue evaluates I(n, ν, Γ).
//
// NOTE: n = 1 zeroes the prefactor denominator, and every integer n ≥ 2
// lands one of the gamma factors on a pole. Both are structural holes in
// the closed form, not numerical noise, so they come back as ErrDomain.
func IntegralValue(n, nu, gamma float64, cfg EvalConfig) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := checkExponent(n); err != nil {
		return 0, err
	}
	if math.IsNaN(nu) || math.IsInf(nu, 0) || nu <= 0 {
		return 0, fmt.Errorf("frequency ν=%g must be positive and finite: %w", nu, ErrDomain)
	}
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) || gamma <= 0 {
		return 0, fmt.Errorf("amplification Γ=%g must be positive and finite: %w", gamma, ErrDomain)
	}

	wp := cfg.Digits + kernelGuardDigits
	ctx := apContext(wp)

	one := decimal.New(1, 0)
	two := decimal.New(2, 0)
	three := decimal.New(3, 0)
	four := decimal.New(4, 0)
	half := decimal.New(5, 1)
	threeHalves := decimal.New(15, 1)
	negHalf := decimal.New(-5, 1)

	N := apFloat(ctx, n)
	NU := apFloat(ctx, nu)
	G := apFloat(ctx, gamma)
	P := dmath.Pi(apNew(ctx))

	nHalf := apNew(ctx)
	ctx.Quo(nHalf, N, two)
	nm1 := apNew(ctx)
	ctx.Sub(nm1, N, one)

	// z = -(Γ / (4πν))²
	x := apNew(ctx)
	ctx.Mul(x, four, P)
	ctx.Mul(x, x, NU)
	ctx.Quo(x, G, x)
	z := apNew(ctx)
	ctx.Mul(z, x, x)
	z.Neg(z)

	// The series run at the assembly precision; their own refinement loop
	// rides on top of it.
	seriesCfg := cfg
	seriesCfg.Digits = wp

	b11 := apNew(ctx)
	ctx.Sub(b11, half, nHalf)
	b12 := apNew(ctx)
	ctx.Sub(b12, one, nHalf)
	h1, err := hyperSeries(
		[]*decimal.Big{negHalf},
		[]*decimal.Big{b11, b12},
		z, false, seriesCfg)
	if err != nil {
		return 0, kernelErr(n, nu, gamma, err)
	}

	a2 := apNew(ctx)
	ctx.Quo(a2, nm1, two)
	b22 := apNew(ctx)
	ctx.Add(b22, two, N)
	ctx.Quo(b22, b22, two)
	h2, err := hyperSeries(
		[]*decimal.Big{a2},
		[]*decimal.Big{half, b22},
		z, true, seriesCfg)
	if err != nil {
		return 0, kernelErr(n, nu, gamma, err)
	}

	b32 := apNew(ctx)
	ctx.Add(b32, three, N)
	ctx.Quo(b32, b32, two)
	h3, err := hyperSeries(
		[]*decimal.Big{nHalf},
		[]*decimal.Big{threeHalves, b32},
		z, true, seriesCfg)
	if err != nil {
		return 0, kernelErr(n, nu, gamma, err)
	}

	g1arg := apNew(ctx)
	ctx.Sub(g1arg, one, nHalf)
	g1, err := gammaAP(g1arg, wp)
	if err != nil {
		return 0, kernelErr(n, nu, gamma, err)
	}
	g2arg := apNew(ctx)
	ctx.Sub(g2arg, threeHalves, nHalf)
	g2, err := gammaAP(g2arg, wp)
	if err != nil {
		return 0, kernelErr(n, nu, gamma, err)
	}

	// pre = 2^(-3-2n) · π^(-3/2-n) / ((n-1)·ν)
	e := apNew(ctx)
	ctx.Mul(e, two, N)
	ctx.Add(e, e, three)
	e.Neg(e)
	pre := dmath.Pow(apNew(ctx), two, e)
	ctx.Add(e, threeHalves, N)
	e.Neg(e)
	ctx.Mul(pre, pre, dmath.Pow(apNew(ctx), P, e))
	den := apNew(ctx)
	ctx.Mul(den, nm1, NU)
	ctx.Quo(pre, pre, den)

	// term1 = -4^(n+1) · π^(n+1/2) · (Γ - 2(n-1)πν·h1)
	ctx.Add(e, one, N)
	term1 := dmath.Pow(apNew(ctx), four, e)
	ctx.Add(e, half, N)
	ctx.Mul(term1, term1, dmath.Pow(apNew(ctx), P, e))
	inner := apNew(ctx)
	ctx.Mul(inner, two, nm1)
	ctx.Mul(inner, inner, P)
	ctx.Mul(inner, inner, NU)
	ctx.Mul(inner, inner, h1)
	ctx.Sub(inner, G, inner)
	ctx.Mul(term1, term1, inner)
	term1.Neg(term1)

	// term2 = 2π · (Γ/ν)^n · (4πν·Γ(1-n/2)·h2 + Γ·Γ(3/2-n/2)·h3)
	ratio := apNew(ctx)
	ctx.Quo(ratio, G, NU)
	gpow := dmath.Pow(apNew(ctx), ratio, N)
	s1 := apNew(ctx)
	ctx.Mul(s1, four, P)
	ctx.Mul(s1, s1, NU)
	ctx.Mul(s1, s1, g1)
	ctx.Mul(s1, s1, h2)
	s2 := apNew(ctx)
	ctx.Mul(s2, G, g2)
	ctx.Mul(s2, s2, h3)
	term2 := apNew(ctx)
	ctx.Add(term2, s1, s2)
	ctx.Mul(term2, term2, gpow)
	ctx.Mul(term2, term2, P)
	ctx.Mul(term2, term2, two)

	val := apNew(ctx)
	ctx.Add(val, term1, term2)
	ctx.Mul(val, val, pre)

	f, _ := val.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("I(n=%g, ν=%g, Γ=%g) = %s exceeds the float64 range: %w",
			n, nu, gamma, val, ErrNumericalDivergence)
	}
	return f, nil
}

// checkExponent rejects tail exponents the closed form cannot carry.
func checkExponent(n float64) error {
	switch {
	case math.IsNaN(n) || math.IsInf(n, 0):
		return fmt.Errorf("tail exponent n=%g is not finite: %w", n, ErrDomain)
	case n <= 0:
		return fmt.Errorf("tail exponent n=%g must be positive: %w", n, ErrDomain)
	case n == 1:
		return fmt.Errorf("tail exponent n=1 zeroes the kernel prefactor (n-1): %w", ErrDomain)
	case n >= 2 && n == math.Trunc(n):
		return fmt.Errorf("integer tail exponent n=%g puts Γ(1-n/2) or Γ(3/2-n/2) on a pole: %w", n, ErrDomain)
	}
	return nil
}

// kernelErr tags evaluator failures with the kernel coordinates.
func kernelErr(n, nu, gamma float64, err error) error {
	return fmt.Errorf("I(n=%g, ν=%g, Γ=%g): %w", n, nu, gamma, err)
}
