package tacklaw

import (
	"github.com/ericlagergren/decimal"
)

// apContext returns an arithmetic context rounding to the given number of
// significant decimal digits. Every arbitrary-precision operation in this
// package runs through one of these; the zero RoundingMode is half-even,
// which the golden test values assume.
func apContext(digits int) decimal.Context {
	return decimal.Context{Precision: digits}
}

// apNew returns a zero-valued decimal bound to ctx. Binding matters for the
// decimal/math functions, which round to the destination's own context.
func apNew(ctx decimal.Context) *decimal.Big {
	return decimal.WithContext(ctx)
}

// apFloat converts f exactly. float64 inputs carry their full binary
// expansion into the decimal domain, so two calls with the same float are
// bit-for-bit identical.
func apFloat(ctx decimal.Context, f float64) *decimal.Big {
	return decimal.WithContext(ctx).SetFloat64(f)
}

// apUint returns the small constant u bound to ctx.
func apUint(ctx decimal.Context, u uint64) *decimal.Big {
	return decimal.WithContext(ctx).SetUint64(u)
}

// adjExp returns the base-10 exponent of x's leading digit, e.g. 2 for
// 123.4 and -3 for 0.0012. x must be finite and nonzero.
func adjExp(x *decimal.Big) int {
	return x.Precision() - x.Scale() - 1
}

// isNonPosInt reports whether x sits exactly on a gamma pole, i.e. is one
// of 0, -1, -2, ...
func isNonPosInt(x *decimal.Big) bool {
	return x.IsInt() && x.Sign() <= 0
}
