package units

import (
	"math"
	"testing"
)

func TestMMConversionPerAxis(t *testing.T) {
	r := Resolution{UnitsPerMMX: 26.0, UnitsPerMMY: 70.0}

	if got := r.MMX(52); got != 2.0 {
		t.Errorf("MMX(52) = %v, want 2.0", got)
	}
	if got := r.MMY(140); got != 2.0 {
		t.Errorf("MMY(140) = %v, want 2.0", got)
	}
}

func TestVectorMM(t *testing.T) {
	r := Resolution{UnitsPerMMX: 10, UnitsPerMMY: 20}
	dx, dy := r.VectorMM(100, 100)
	if dx != 10 || dy != 5 {
		t.Errorf("VectorMM(100, 100) = (%v, %v), want (10, 5)", dx, dy)
	}
}

func TestDistanceMM(t *testing.T) {
	// Square resolution: a 30/40 unit offset at 10 units/mm is a 3/4/5
	// triangle in millimeters.
	r := Resolution{UnitsPerMMX: 10, UnitsPerMMY: 10}
	if got := r.DistanceMM(0, 0, 30, 40); got != 5.0 {
		t.Errorf("DistanceMM = %v, want 5.0", got)
	}
}

func TestDistanceMMNonSquare(t *testing.T) {
	r := Resolution{UnitsPerMMX: 10, UnitsPerMMY: 20}
	got := r.DistanceMM(0, 0, 30, 80)
	want := math.Hypot(3, 4)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("DistanceMM = %v, want %v", got, want)
	}
}

func TestInvalidResolutionFallsBackToDefaults(t *testing.T) {
	var r Resolution // zero value
	if got := r.MMX(DefaultUnitsPerMMX); got != 1.0 {
		t.Errorf("zero-value MMX fallback = %v, want 1.0", got)
	}
	if got := r.MMY(DefaultUnitsPerMMY); got != 1.0 {
		t.Errorf("zero-value MMY fallback = %v, want 1.0", got)
	}

	neg := Resolution{UnitsPerMMX: -5, UnitsPerMMY: -5}
	if got := neg.MMX(DefaultUnitsPerMMX); got != 1.0 {
		t.Errorf("negative MMX fallback = %v, want 1.0", got)
	}
}
