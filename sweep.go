package tacklaw

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Point is one converged sample on a result curve.
type Point struct {
	// X is the grid coordinate the sweep walked: ν for GridNu sweeps,
	// r_u for GridUnloadingRate sweeps.
	X float64

	// Nu is the frequency the kernel actually saw. Equal to X on
	// frequency sweeps, mapped from it on rate sweeps.
	Nu float64

	// Gamma is the converged effective amplification.
	Gamma float64

	// Iterations the fixed-point solve spent at this point.
	Iterations int
}

// Curve is the ordered result for one tail exponent. Points keep the grid
// order; failed grid points are skipped, never padded with placeholders.
type Curve struct {
	N      float64
	Points []Point
}

// PointFailure records one grid point whose solve failed, with enough
// coordinates to rerun it in isolation.
type PointFailure struct {
	N     float64 // tail exponent of the curve
	X     float64 // grid coordinate
	Nu    float64 // mapped frequency
	Index int     // position on the grid
	Err   error   // wraps one of the sentinel failure kinds
}

// Report is the complete outcome of one sweep: a curve per exponent in the
// order configured, plus every per-point failure in (curve, grid) order.
type Report struct {
	Curves   []Curve
	Failures []PointFailure
}

// HasFailures reports whether any grid point failed to converge.
func (r *Report) HasFailures() bool {
	return len(r.Failures) > 0
}

// SweepStats summarizes a finished sweep.
type SweepStats struct {
	Points         int     // grid points attempted
	Converged      int     // points that produced a curve sample
	Failed         int     // points recorded as failures
	MaxIterations  int     // slowest solve
	MeanIterations float64 // average over converged points
}

// Stats aggregates the report.
func (r *Report) Stats() SweepStats {
	s := SweepStats{Failed: len(r.Failures)}
	total := 0
	for _, c := range r.Curves {
		for _, p := range c.Points {
			s.Converged++
			total += p.Iterations
			if p.Iterations > s.MaxIterations {
				s.MaxIterations = p.Iterations
			}
		}
	}
	s.Points = s.Converged + s.Failed
	if s.Converged > 0 {
		s.MeanIterations = float64(total) / float64(s.Converged)
	}
	return s
}

type pointResult struct {
	gamma float64
	iters int
	err   error
}

// RunSweep computes the full curve family described by cfg.
//
// Every (exponent, grid point) pair is an independent solve, so the work
// fans out across cfg.Workers goroutines. Each solve writes into its own
// slot of a preallocated matrix and the report is assembled from the matrix
// afterwards, which keeps the output bit-identical across runs regardless
// of worker count or scheduling.
//
// A failed point never aborts the sweep; it lands in Report.Failures and
// the curve simply skips that grid index. Context cancellation is the only
// error that abandons the sweep as a whole.
func RunSweep(ctx context.Context, cfg SweepConfig) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	xs := LogSpace(cfg.Grid.Min, cfg.Grid.Max, cfg.Grid.Points)
	nus := make([]float64, len(xs))
	for i, x := range xs {
		if cfg.Grid.Variable == GridUnloadingRate {
			nus[i] = NuFromUnloadingRate(x)
		} else {
			nus[i] = x
		}
	}

	results := make([][]pointResult, len(cfg.Exponents))
	for i := range results {
		results[i] = make([]pointResult, len(xs))
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type job struct{ ei, gi int }
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan job)

	g.Go(func() error {
		defer close(jobs)
		for ei := range cfg.Exponents {
			for gi := range xs {
				select {
				case jobs <- job{ei: ei, gi: gi}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for jb := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				gamma, iters, err := EffectiveGamma(cfg.Exponents[jb.ei], cfg.K, nus[jb.gi], cfg.Solve)
				results[jb.ei][jb.gi] = pointResult{gamma: gamma, iters: iters, err: err}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep interrupted: %w", err)
	}

	report := &Report{Curves: make([]Curve, 0, len(cfg.Exponents))}
	for ei, n := range cfg.Exponents {
		curve := Curve{N: n, Points: make([]Point, 0, len(xs))}
		for gi := range xs {
			res := results[ei][gi]
			if res.err != nil {
				report.Failures = append(report.Failures, PointFailure{
					N:     n,
					X:     xs[gi],
					Nu:    nus[gi],
					Index: gi,
					Err:   res.err,
				})
				continue
			}
			curve.Points = append(curve.Points, Point{
				X:          xs[gi],
				Nu:         nus[gi],
				Gamma:      res.gamma,
				Iterations: res.iters,
			})
		}
		report.Curves = append(report.Curves, curve)
	}
	return report, nil
}
