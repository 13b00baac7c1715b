package tacklaw

import "math"

// Calibration of the experimental axis. Sweeps over the unloading rate r_u
// convert each grid point to the dimensionless frequency the kernel
// understands through a fitted power law:
//
//	ν = C1 · (r_u / C2)^χ
//
// Where:
//   - C1 = 2.887: amplitude fitted against the reference experiments
//   - C2 = 3.24·π^(2/3): rate normalization (crack-speed units)
//   - χ = 1.171: fitted scaling exponent
const (
	MappingC1       = 2.887
	MappingExponent = 1.171
)

// MappingC2 is the rate normalization constant, 3.24·π^(2/3).
var MappingC2 = 3.24 * math.Pow(math.Pi, 2.0/3.0)

// NuFromUnloadingRate converts an unloading rate to the dimensionless
// frequency. The mapping is strictly increasing, so log-spaced rate grids
// stay ordered after conversion.
func NuFromUnloadingRate(ru float64) float64 {
	return MappingC1 * math.Pow(ru/MappingC2, MappingExponent)
}

// UnloadingRateFromNu inverts NuFromUnloadingRate.
func UnloadingRateFromNu(nu float64) float64 {
	return MappingC2 * math.Pow(nu/MappingC1, 1/MappingExponent)
}
