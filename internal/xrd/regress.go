package xrd

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/lattice-data/structure.report/internal/units"
)

// FitLattice regresses a lattice hypothesis against the detected peaks.
//
// The i-th peak (ascending angle) is paired positionally with the i-th
// reflection (ascending Q): the n-th smallest observed Bragg angle is
// assumed to be the n-th smallest allowed reflection. This holds only
// when the detector parameters are tuned so that no spurious or missing
// peak shifts the ordering; retune rather than trusting a poor fit.
//
// The regression is ordinary least squares of y = Q against x = sin²θ.
// For a cubic lattice sin²θ = (λ²/4a²)·Q, so the slope is 4a²/λ² and
// a = λ·sqrt(slope)/2.
func FitLattice(peaks []Peak, reflections []Reflection, wavelength float64) (RegressionFit, error) {
	hypothesis := Hypothesis("")
	if len(reflections) > 0 {
		hypothesis = hypothesisFor(reflections)
	}

	if len(peaks) < 2 {
		return RegressionFit{}, &InsufficientPeaksError{Found: len(peaks)}
	}
	if len(reflections) < len(peaks) {
		return RegressionFit{}, &PairingMismatchError{
			Hypothesis:  hypothesis,
			Peaks:       len(peaks),
			Reflections: len(reflections),
		}
	}

	xs := make([]float64, len(peaks))
	ys := make([]float64, len(peaks))
	for i, p := range peaks {
		s := math.Sin(units.BraggThetaRad(p.AngleTwoTheta))
		xs[i] = s * s
		ys[i] = float64(reflections[i].Q)
	}

	if distinct(xs) < 2 {
		return RegressionFit{}, &DegenerateFitError{Hypothesis: hypothesis, Reason: "fewer than 2 distinct sin²θ values"}
	}
	if distinct(ys) < 2 {
		// All peaks mapped to one Q: zero total sum of squares.
		return RegressionFit{}, &DegenerateFitError{Hypothesis: hypothesis, Reason: "zero variance in reflection Q values"}
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	if slope <= 0 || math.IsNaN(slope) {
		return RegressionFit{}, &DegenerateFitError{Hypothesis: hypothesis, Reason: "non-positive regression slope"}
	}

	estimates := make([]float64, len(xs))
	for i, x := range xs {
		estimates[i] = intercept + slope*x
	}
	r2 := stat.RSquaredFrom(estimates, ys, nil)

	return RegressionFit{
		Hypothesis:      hypothesis,
		Slope:           slope,
		Intercept:       intercept,
		RSquared:        r2,
		LatticeConstant: wavelength * math.Sqrt(slope) / 2,
	}, nil
}

// hypothesisFor recovers the hypothesis from a reflection table by its
// first allowed Q: fcc starts at (111) Q=3, bcc at (110) Q=2.
func hypothesisFor(reflections []Reflection) Hypothesis {
	if reflections[0].Q == 3 {
		return FCC
	}
	return BCC
}

func distinct(vals []float64) int {
	seen := map[float64]struct{}{}
	for _, v := range vals {
		seen[v] = struct{}{}
	}
	return len(seen)
}
