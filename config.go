package tacklaw

import (
	"fmt"
	"math"
)

// GridVariable selects which physical axis a sweep walks.
type GridVariable string

const (
	// GridNu sweeps the dimensionless frequency ν directly.
	GridNu GridVariable = "nu"

	// GridUnloadingRate sweeps the experimental unloading rate r_u and
	// maps each point to ν through the fitted power law.
	GridUnloadingRate GridVariable = "rate"
)

// GridConfig describes one log-spaced sweep axis.
type GridConfig struct {
	Variable GridVariable `yaml:"variable"`
	Min      float64      `yaml:"min"`
	Max      float64      `yaml:"max"`
	Points   int          `yaml:"points"`
}

// Validate checks the axis bounds.
func (g GridConfig) Validate() error {
	switch g.Variable {
	case GridNu, GridUnloadingRate:
	default:
		return fmt.Errorf("grid config: unknown variable %q\n"+
			"  Action: use %q (frequency) or %q (unloading rate): %w",
			g.Variable, GridNu, GridUnloadingRate, ErrDomain)
	}
	if math.IsNaN(g.Min) || math.IsInf(g.Min, 0) || g.Min <= 0 {
		return fmt.Errorf("grid config: min=%g must be positive and finite (the axis is logarithmic): %w", g.Min, ErrDomain)
	}
	if math.IsNaN(g.Max) || math.IsInf(g.Max, 0) || g.Max <= g.Min {
		return fmt.Errorf("grid config: max=%g must be finite and above min=%g: %w", g.Max, g.Min, ErrDomain)
	}
	if g.Points < 2 {
		return fmt.Errorf("grid config: %d points cannot span [%g, %g]\n"+
			"  Action: use at least 2 points (the published curves use 200): %w",
			g.Points, g.Min, g.Max, ErrDomain)
	}
	return nil
}

// SweepConfig describes a full curve-family computation: one effective
// amplification curve per tail exponent, every curve sampled on the same
// grid.
type SweepConfig struct {
	// K is the stress ratio σ₀/σ_c, strictly inside (0, 1).
	K float64 `yaml:"k"`

	// Exponents lists the tail exponents n, one result curve each.
	Exponents []float64 `yaml:"exponents"`

	// Grid is the shared sweep axis.
	Grid GridConfig `yaml:"grid"`

	// Solve bounds each per-point fixed-point solve.
	Solve SolveConfig `yaml:"solve"`

	// Workers caps the solver goroutines; zero or negative means
	// GOMAXPROCS. Points are independent, so any worker count produces
	// identical output.
	Workers int `yaml:"workers"`
}

// DefaultSweepConfig reproduces the published frequency sweep: five tail
// exponents over ν from 1e-2 to 1e8.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		K:         0.10,
		Exponents: []float64{0.2, 0.4, 0.6, 0.8, 1.6},
		Grid: GridConfig{
			Variable: GridNu,
			Min:      1e-2,
			Max:      1e8,
			Points:   200,
		},
		Solve: DefaultSolveConfig(),
	}
}

// DefaultRateSweepConfig reproduces the published unloading-rate sweep:
// the same exponents over r_u from 1e-2 to 1e10.
func DefaultRateSweepConfig() SweepConfig {
	cfg := DefaultSweepConfig()
	cfg.Grid = GridConfig{
		Variable: GridUnloadingRate,
		Min:      1e-2,
		Max:      1e10,
		Points:   200,
	}
	return cfg
}

// Validate checks the whole sweep description, cascading into the grid and
// solver bounds. Exponent domain holes (n = 1, integers from 2 up) are
// rejected here rather than left to fail point by point.
func (c SweepConfig) Validate() error {
	if math.IsNaN(c.K) || c.K <= 0 || c.K >= 1 {
		return fmt.Errorf("sweep config: stress ratio k=%g must lie strictly inside (0, 1)\n"+
			"  k → 0 removes the load, k → 1 saturates the bond: %w", c.K, ErrDomain)
	}
	if len(c.Exponents) == 0 {
		return fmt.Errorf("sweep config: no tail exponents, nothing to sweep\n"+
			"  Action: list at least one n (the published family is 0.2, 0.4, 0.6, 0.8, 1.6): %w", ErrDomain)
	}
	for _, n := range c.Exponents {
		if err := checkExponent(n); err != nil {
			return fmt.Errorf("sweep config: %w", err)
		}
	}
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	return c.Solve.Validate()
}
