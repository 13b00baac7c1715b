package tacklaw

import "math"

// LogSpace returns points logarithmically spaced from min to max inclusive,
// matching the grids the published curves were sampled on. It expects
// 0 < min < max and points >= 2 (GridConfig.Validate enforces this before
// any sweep); a single-point request degenerates to [min].
func LogSpace(min, max float64, points int) []float64 {
	if points < 1 {
		return nil
	}
	xs := make([]float64, points)
	if points == 1 {
		xs[0] = min
		return xs
	}
	lo := math.Log10(min)
	step := (math.Log10(max) - lo) / float64(points-1)
	for i := range xs {
		xs[i] = math.Pow(10, lo+float64(i)*step)
	}
	return xs
}
