package units

import (
	"math"
	"testing"
)

func TestDegToRad(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		want float64
	}{
		{"zero", 0, 0},
		{"right angle", 90, math.Pi / 2},
		{"half turn", 180, math.Pi},
		{"negative", -90, -math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DegToRad(tt.deg)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("DegToRad(%v) = %v, want %v", tt.deg, got, tt.want)
			}
		})
	}
}

func TestRadToDegRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 12.5, 45, 90, 179.9} {
		if got := RadToDeg(DegToRad(deg)); math.Abs(got-deg) > 1e-10 {
			t.Errorf("round trip for %v° gave %v°", deg, got)
		}
	}
}

func TestBraggThetaRad(t *testing.T) {
	// 2θ = 90° means θ = 45° = π/4
	if got := BraggThetaRad(90); math.Abs(got-math.Pi/4) > 1e-12 {
		t.Errorf("BraggThetaRad(90) = %v, want π/4", got)
	}
}

func TestAngstromToNanometer(t *testing.T) {
	if got := AngstromToNanometer(15.4); math.Abs(got-1.54) > 1e-12 {
		t.Errorf("AngstromToNanometer(15.4) = %v, want 1.54", got)
	}
}

func TestValidWavelength(t *testing.T) {
	valid := []float64{WavelengthMoKa, WavelengthCuKa, 0.001}
	for _, w := range valid {
		if !ValidWavelength(w) {
			t.Errorf("ValidWavelength(%v) = false, want true", w)
		}
	}
	invalid := []float64{0, -1.54, math.NaN(), math.Inf(1)}
	for _, w := range invalid {
		if ValidWavelength(w) {
			t.Errorf("ValidWavelength(%v) = true, want false", w)
		}
	}
}
