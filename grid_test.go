package tacklaw

import (
	"math"
	"testing"
)

// TestLogSpace_PublishedGrid verifies the 200-point frequency axis hits
// both endpoints and stays strictly increasing.
func TestLogSpace_PublishedGrid(t *testing.T) {
	xs := LogSpace(1e-2, 1e8, 200)

	if len(xs) != 200 {
		t.Fatalf("❌ got %d points, expected 200", len(xs))
	}
	if relErr := math.Abs(xs[0]-1e-2) / 1e-2; relErr > 1e-12 {
		t.Errorf("❌ first point %g misses 1e-2 (rel err %.2e)", xs[0], relErr)
	}
	if relErr := math.Abs(xs[199]-1e8) / 1e8; relErr > 1e-12 {
		t.Errorf("❌ last point %g misses 1e8 (rel err %.2e)", xs[199], relErr)
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			t.Fatalf("❌ not increasing at index %d: %g after %g", i, xs[i], xs[i-1])
		}
	}
	t.Logf("✓ 200 points from %g to %g, strictly increasing", xs[0], xs[199])
}

// TestLogSpace_ConstantRatio verifies the spacing is geometric: every
// neighbor pair shares one ratio, 10^(decades/(points-1)).
func TestLogSpace_ConstantRatio(t *testing.T) {
	xs := LogSpace(1e-2, 1e8, 200)

	wantRatio := math.Pow(10, 10.0/199.0) // 10 decades over 199 steps
	for i := 1; i < len(xs); i++ {
		ratio := xs[i] / xs[i-1]
		if relErr := math.Abs(ratio-wantRatio) / wantRatio; relErr > 1e-12 {
			t.Errorf("❌ step %d: ratio %.15f drifts from %.15f (rel err %.2e)",
				i, ratio, wantRatio, relErr)
		}
	}
	t.Logf("✓ Geometric spacing with ratio %.12f", wantRatio)
}

// TestLogSpace_TwoPoints verifies the minimal valid grid is just the two
// endpoints.
func TestLogSpace_TwoPoints(t *testing.T) {
	xs := LogSpace(3.7, 812.0, 2)

	if len(xs) != 2 {
		t.Fatalf("❌ got %d points, expected 2", len(xs))
	}
	if relErr := math.Abs(xs[0]-3.7) / 3.7; relErr > 1e-14 {
		t.Errorf("❌ first point %v misses 3.7", xs[0])
	}
	if relErr := math.Abs(xs[1]-812.0) / 812.0; relErr > 1e-14 {
		t.Errorf("❌ second point %v misses 812", xs[1])
	}
	t.Logf("✓ Two-point grid: [%v, %v]", xs[0], xs[1])
}

// TestLogSpace_Degenerate verifies the out-of-contract shapes stay tame:
// one point collapses to [min], fewer returns nothing.
func TestLogSpace_Degenerate(t *testing.T) {
	if xs := LogSpace(5.0, 100.0, 1); len(xs) != 1 || xs[0] != 5.0 {
		t.Errorf("❌ points=1: got %v, expected [5]", xs)
	}
	if xs := LogSpace(5.0, 100.0, 0); xs != nil {
		t.Errorf("❌ points=0: got %v, expected nil", xs)
	}
	if xs := LogSpace(5.0, 100.0, -3); xs != nil {
		t.Errorf("❌ points=-3: got %v, expected nil", xs)
	}
	t.Logf("✓ Degenerate requests handled")
}
