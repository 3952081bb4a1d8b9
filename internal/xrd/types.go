// Package xrd implements powder X-ray diffraction analysis: peak detection,
// reflection indexing, lattice regression, structure selection, and
// Scherrer crystallite-size estimation.
package xrd

import "fmt"

// Hypothesis identifies a cubic lattice type under test.
type Hypothesis string

const (
	FCC Hypothesis = "fcc"
	BCC Hypothesis = "bcc"
)

// ScanPoint is a single measurement from the diffractometer.
type ScanPoint struct {
	AngleTwoTheta float64 // Scattering angle 2θ (degrees)
	Intensity     float64 // Detector counts (arbitrary units)
}

// Series is an ordered diffraction scan. Angles must be strictly
// increasing with no NaN or negative values; see Validate.
type Series []ScanPoint

// Peak is a detected diffraction maximum. Immutable once created.
type Peak struct {
	AngleTwoTheta float64 // Peak position 2θ (degrees)
	Intensity     float64 // Intensity at the maximum
	FWHMDeg       float64 // Full width at half maximum (degrees)
	Index         int     // Order of detection, ascending angle
}

// Reflection is an allowed Miller-index reflection for a lattice
// hypothesis. Q = h² + k² + l². Multiple index triples can share a Q;
// only one canonical triple is kept per Q value.
type Reflection struct {
	H, K, L int
	Q       int
}

// Label returns the conventional "(hkl)" form, e.g. "(311)".
func (r Reflection) Label() string {
	return fmt.Sprintf("(%d%d%d)", r.H, r.K, r.L)
}

// RegressionFit is the outcome of fitting one lattice hypothesis.
type RegressionFit struct {
	Hypothesis      Hypothesis
	Slope           float64
	Intercept       float64
	RSquared        float64
	LatticeConstant float64 // angstrom
}

// StructureResult is the final structure determination.
type StructureResult struct {
	Winner    RegressionFit
	Discarded RegressionFit
}

// SizeEstimate is a per-peak Scherrer crystallite size.
type SizeEstimate struct {
	PeakIndex         int
	AngleTwoTheta     float64 // degrees
	CrystalliteSizeNm float64
}
