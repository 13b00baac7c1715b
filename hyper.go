package tacklaw

import (
	"fmt"
	"math"

	"github.com/ericlagergren/decimal"
)

// EvalConfig bounds one hypergeometric evaluation.
//
// Digits is the number of significant digits the caller wants in the
// result. The evaluator works at an inflated internal precision and checks,
// after summing, how many digits the alternating series actually cancelled
// away; if the survivors fall short of Digits it re-runs at a higher
// working precision. MaxRefinements caps those re-runs and MaxTerms caps
// the partial sums inside each one.
type EvalConfig struct {
	Digits         int `yaml:"digits"`
	MaxTerms       int `yaml:"max_terms"`
	MaxRefinements int `yaml:"max_refinements"`
}

// DefaultEvalConfig carries enough headroom for the full default grid: the
// worst point (r_u = 0.01) drives |z| near 3.5e3, which costs about 50
// digits of cancellation and just over 200 series terms.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		Digits:         20,
		MaxTerms:       2000,
		MaxRefinements: 8,
	}
}

// Validate checks the evaluation bounds.
func (c EvalConfig) Validate() error {
	if c.Digits < 5 {
		return fmt.Errorf("eval config: %d target digits is below the minimum of 5\n"+
			"  Action: raise Digits (DefaultEvalConfig uses 20): %w", c.Digits, ErrDomain)
	}
	if c.MaxTerms < 8 {
		return fmt.Errorf("eval config: MaxTerms=%d cannot hold even a short series\n"+
			"  Action: raise MaxTerms (DefaultEvalConfig uses 2000): %w", c.MaxTerms, ErrDomain)
	}
	if c.MaxRefinements < 1 {
		return fmt.Errorf("eval config: MaxRefinements=%d leaves no evaluation attempts\n"+
			"  Action: raise MaxRefinements (DefaultEvalConfig uses 8): %w", c.MaxRefinements, ErrDomain)
	}
	return nil
}

// seriesGuardDigits pads the first working precision and every escalation.
const seriesGuardDigits = 25

// Hyper evaluates the generalized hypergeometric function
//
//	pFq(a₁..a_p; b₁..b_q; z) = Σ_k [(a₁)_k···(a_p)_k / ((b₁)_k···(b_q)_k)] · zᵏ/k!
//
// by direct summation at adaptive precision. Denominator parameters on
// non-positive integers make the raw series undefined; use
// HyperRegularized for those.
func Hyper(a, b []float64, z float64, cfg EvalConfig) (float64, error) {
	ab, bb, zb, err := seriesArgs(a, b, z, cfg)
	if err != nil {
		return 0, err
	}
	for _, bj := range bb {
		if isNonPosInt(bj) {
			return 0, fmt.Errorf("denominator parameter %s is a non-positive integer, the raw series is undefined\n"+
				"  Action: call HyperRegularized instead: %w", bj, ErrDomain)
		}
	}
	s, err := hyperSeries(ab, bb, zb, false, cfg)
	if err != nil {
		return 0, err
	}
	return seriesFloat(s, a, b, z)
}

// HyperRegularized evaluates the regularized function
//
//	pF̃q(a; b; z) = pFq(a; b; z) / [Γ(b₁)···Γ(b_q)]
//
// which stays finite when denominator parameters sit on non-positive
// integers. Each term carries its own reciprocal gamma factors, stepped by
// the recurrence 1/Γ(b+k+1) = (1/Γ(b+k)) / (b+k), so the pole terms
// contribute exact zeros instead of poisoning the sum.
func HyperRegularized(a, b []float64, z float64, cfg EvalConfig) (float64, error) {
	ab, bb, zb, err := seriesArgs(a, b, z, cfg)
	if err != nil {
		return 0, err
	}
	s, err := hyperSeries(ab, bb, zb, true, cfg)
	if err != nil {
		return 0, err
	}
	return seriesFloat(s, a, b, z)
}

// seriesArgs validates the float64 inputs and lifts them into the decimal
// domain exactly.
func seriesArgs(a, b []float64, z float64, cfg EvalConfig) ([]*decimal.Big, []*decimal.Big, *decimal.Big, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	for _, ai := range a {
		if math.IsNaN(ai) || math.IsInf(ai, 0) {
			return nil, nil, nil, fmt.Errorf("numerator parameter %g is not finite: %w", ai, ErrDomain)
		}
	}
	for _, bj := range b {
		if math.IsNaN(bj) || math.IsInf(bj, 0) {
			return nil, nil, nil, fmt.Errorf("denominator parameter %g is not finite: %w", bj, ErrDomain)
		}
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return nil, nil, nil, fmt.Errorf("argument z=%g is not finite: %w", z, ErrDomain)
	}

	ctx := apContext(cfg.Digits + seriesGuardDigits)
	ab := make([]*decimal.Big, len(a))
	for i, ai := range a {
		ab[i] = apFloat(ctx, ai)
	}
	bb := make([]*decimal.Big, len(b))
	for j, bj := range b {
		bb[j] = apFloat(ctx, bj)
	}
	return ab, bb, apFloat(ctx, z), nil
}

// seriesFloat lowers an arbitrary-precision sum back to float64.
func seriesFloat(s *decimal.Big, a, b []float64, z float64) (float64, error) {
	f, _ := s.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("pFq(%v; %v; %g) = %s exceeds the float64 range: %w", a, b, z, s, ErrNumericalDivergence)
	}
	return f, nil
}

// hyperSeries is the adaptive-precision driver shared by Hyper,
// HyperRegularized, and the integral kernel (which calls it with decimal
// arguments directly, keeping the whole kernel assembly at full precision).
//
// Each attempt sums at a trial working precision and records the largest
// magnitude that ever appeared among the terms and partial sums. The digits
// between that peak and the final sum are cancelled and carry no
// information, so the attempt is accepted only when
//
//	working precision - 10 - cancelled digits >= cfg.Digits
//
// Otherwise the next attempt runs at cfg.Digits + cancelled + guard.
func hyperSeries(a, b []*decimal.Big, z *decimal.Big, regularized bool, cfg EvalConfig) (*decimal.Big, error) {
	wp := cfg.Digits + seriesGuardDigits
	cancel := 0
	for attempt := 0; attempt < cfg.MaxRefinements; attempt++ {
		sum, maxMag, converged, err := sumHyper(a, b, z, regularized, wp, cfg.MaxTerms)
		if err != nil {
			return nil, err
		}
		if !converged {
			return nil, fmt.Errorf("series still above the stopping threshold after %d terms at %d working digits: %w",
				cfg.MaxTerms, wp, ErrNumericalDivergence)
		}
		cancel = cancellationDigits(sum, maxMag, wp)
		if wp-10-cancel >= cfg.Digits {
			out := apContext(cfg.Digits)
			return out.Round(sum), nil
		}
		wp = cfg.Digits + cancel + seriesGuardDigits
	}
	return nil, fmt.Errorf("%d refinement attempts exhausted chasing %d digits through %d digits of cancellation: %w",
		cfg.MaxRefinements, cfg.Digits, cancel, ErrNumericalDivergence)
}

// sumHyper runs a single fixed-precision pass. It reports the partial sum,
// the peak magnitude seen while summing, and whether two consecutive terms
// dropped below maxMag·10^-(wp-5), the stopping criterion.
func sumHyper(a, b []*decimal.Big, z *decimal.Big, regularized bool, wp, maxTerms int) (sum, maxMag *decimal.Big, converged bool, err error) {
	ctx := apContext(wp)
	one := decimal.New(1, 0)
	eps := decimal.New(1, wp-5) // 10^-(wp-5)
	thr := apNew(ctx)

	small := 0
	if regularized {
		sum = apNew(ctx)
		maxMag = apNew(ctx)
		poch := apUint(ctx, 1)  // ∏ (a_i)_k
		zk := apUint(ctx, 1)    // z^k
		kfact := apUint(ctx, 1) // k!
		kb := apNew(ctx)
		term := apNew(ctx)

		ap := copyAll(ctx, a) // a_i + k - 1, stepped per term
		bp := copyAll(ctx, b) // b_j + k - 1, stepped per term
		recips := make([]*decimal.Big, len(b))
		for j := range b {
			r, rerr := rgammaAP(b[j], wp)
			if rerr != nil {
				return nil, nil, false, rerr
			}
			recips[j] = r
		}

		for k := 0; k < maxTerms; k++ {
			if k > 0 {
				for i := range ap {
					ctx.Mul(poch, poch, ap[i])
					ctx.Add(ap[i], ap[i], one)
				}
				ctx.Mul(zk, zk, z)
				kb.SetUint64(uint64(k))
				ctx.Mul(kfact, kfact, kb)
				for j := range bp {
					// A reciprocal parked on a pole restarts from
					// 1/Γ(1) = 1 one step past it.
					if bp[j].Sign() == 0 {
						recips[j].SetUint64(1)
					} else {
						ctx.Quo(recips[j], recips[j], bp[j])
					}
					ctx.Add(bp[j], bp[j], one)
				}
			}
			ctx.Mul(term, poch, zk)
			ctx.Quo(term, term, kfact)
			for j := range recips {
				ctx.Mul(term, term, recips[j])
			}
			ctx.Add(sum, sum, term)

			updated := false
			if term.CmpAbs(maxMag) > 0 {
				ctx.Abs(maxMag, term)
				updated = true
			}
			if sum.CmpAbs(maxMag) > 0 {
				ctx.Abs(maxMag, sum)
				updated = true
			}
			if updated {
				ctx.Mul(thr, maxMag, eps)
			}
			if k > 0 && maxMag.Sign() > 0 && term.CmpAbs(thr) <= 0 {
				small++
				if small >= 2 {
					converged = true
					break
				}
			} else {
				small = 0
			}
		}
		return sum, maxMag, converged, nil
	}

	sum = apUint(ctx, 1)
	maxMag = apUint(ctx, 1)
	ctx.Mul(thr, maxMag, eps)
	term := apUint(ctx, 1)
	kp1 := apNew(ctx)

	ap := copyAll(ctx, a) // a_i + k, stepped per term
	bp := copyAll(ctx, b) // b_j + k, stepped per term

	for k := 0; k < maxTerms; k++ {
		for i := range ap {
			ctx.Mul(term, term, ap[i])
			ctx.Add(ap[i], ap[i], one)
		}
		for j := range bp {
			if bp[j].Sign() == 0 {
				return nil, nil, false, fmt.Errorf("raw series divides by b+k = 0 at term %d: %w", k, ErrDomain)
			}
			ctx.Quo(term, term, bp[j])
			ctx.Add(bp[j], bp[j], one)
		}
		ctx.Mul(term, term, z)
		kp1.SetUint64(uint64(k + 1))
		ctx.Quo(term, term, kp1)
		ctx.Add(sum, sum, term)

		updated := false
		if term.CmpAbs(maxMag) > 0 {
			ctx.Abs(maxMag, term)
			updated = true
		}
		if sum.CmpAbs(maxMag) > 0 {
			ctx.Abs(maxMag, sum)
			updated = true
		}
		if updated {
			ctx.Mul(thr, maxMag, eps)
		}
		if term.CmpAbs(thr) <= 0 {
			small++
			if small >= 2 {
				converged = true
				break
			}
		} else {
			small = 0
		}
	}
	return sum, maxMag, converged, nil
}

// copyAll clones parameter values so the stepped copies never mutate the
// caller's operands.
func copyAll(ctx decimal.Context, xs []*decimal.Big) []*decimal.Big {
	out := make([]*decimal.Big, len(xs))
	for i, x := range xs {
		out[i] = apNew(ctx).Copy(x)
	}
	return out
}

// cancellationDigits measures how many leading digits the summation
// destroyed: the gap between the largest magnitude seen and the survivor.
func cancellationDigits(sum, maxMag *decimal.Big, wp int) int {
	if sum.Sign() == 0 {
		return wp
	}
	if maxMag.CmpAbs(sum) <= 0 {
		return 0
	}
	return adjExp(maxMag) - adjExp(sum) + 1
}
