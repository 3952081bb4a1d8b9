package xrd

import (
	"fmt"
	"math"
)

// Validate checks the scan series invariants: strictly increasing,
// non-negative angles with finite intensities.
func (s Series) Validate() error {
	for i, p := range s {
		if math.IsNaN(p.AngleTwoTheta) || math.IsNaN(p.Intensity) {
			return fmt.Errorf("scan point %d: NaN value", i)
		}
		if p.AngleTwoTheta < 0 {
			return fmt.Errorf("scan point %d: negative angle %g", i, p.AngleTwoTheta)
		}
		if i > 0 && p.AngleTwoTheta <= s[i-1].AngleTwoTheta {
			return fmt.Errorf("scan point %d: angle %g does not increase past %g",
				i, p.AngleTwoTheta, s[i-1].AngleTwoTheta)
		}
	}
	return nil
}

// Angles returns the 2θ column.
func (s Series) Angles() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.AngleTwoTheta
	}
	return out
}

// Intensities returns the intensity column.
func (s Series) Intensities() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Intensity
	}
	return out
}

// MaxIntensity returns the largest intensity in the series, or 0 for an
// empty series.
func (s Series) MaxIntensity() float64 {
	max := 0.0
	for i, p := range s {
		if i == 0 || p.Intensity > max {
			max = p.Intensity
		}
	}
	return max
}

// InterpIntensity linearly interpolates the intensity at an arbitrary
// angle inside the scan range. Outside the range it clamps to the
// nearest endpoint.
func (s Series) InterpIntensity(angle float64) float64 {
	if len(s) == 0 {
		return 0
	}
	if angle <= s[0].AngleTwoTheta {
		return s[0].Intensity
	}
	if angle >= s[len(s)-1].AngleTwoTheta {
		return s[len(s)-1].Intensity
	}
	for i := 1; i < len(s); i++ {
		if s[i].AngleTwoTheta >= angle {
			a, b := s[i-1], s[i]
			t := (angle - a.AngleTwoTheta) / (b.AngleTwoTheta - a.AngleTwoTheta)
			return a.Intensity + t*(b.Intensity-a.Intensity)
		}
	}
	return s[len(s)-1].Intensity
}
