package xrd

import "fmt"

// InsufficientPeaksError reports that too few peaks were detected for a
// regression. The detection parameters are attached so the operator can
// retune them.
type InsufficientPeaksError struct {
	Found      int
	HeightFrac float64
	Prominence float64
}

func (e *InsufficientPeaksError) Error() string {
	return fmt.Sprintf("insufficient peaks for regression: found %d, need at least 2 (height_frac=%g, prominence=%g)",
		e.Found, e.HeightFrac, e.Prominence)
}

// PairingMismatchError reports that the reflection table is shorter than
// the detected peak list, so positional pairing cannot proceed.
type PairingMismatchError struct {
	Hypothesis  Hypothesis
	Peaks       int
	Reflections int
}

func (e *PairingMismatchError) Error() string {
	return fmt.Sprintf("%s: %d peaks but only %d reflections; raise max_reflection_count",
		e.Hypothesis, e.Peaks, e.Reflections)
}

// DegenerateFitError reports a regression input with no usable variance.
type DegenerateFitError struct {
	Hypothesis Hypothesis
	Reason     string
}

func (e *DegenerateFitError) Error() string {
	return fmt.Sprintf("%s: degenerate fit: %s", e.Hypothesis, e.Reason)
}

// AmbiguousStructureError reports that the two hypothesis fits are too
// close in quality to pick a winner automatically.
type AmbiguousStructureError struct {
	RSquaredFCC float64
	RSquaredBCC float64
	Epsilon     float64
}

func (e *AmbiguousStructureError) Error() string {
	return fmt.Sprintf("ambiguous structure: r² fcc=%.6f vs bcc=%.6f differ by less than %g",
		e.RSquaredFCC, e.RSquaredBCC, e.Epsilon)
}

// DegenerateWidthError reports a peak whose width is physically invalid
// for the Scherrer relation. Non-fatal: the peak is skipped.
type DegenerateWidthError struct {
	PeakIndex     int
	AngleTwoTheta float64
	FWHMDeg       float64
}

func (e *DegenerateWidthError) Error() string {
	return fmt.Sprintf("peak %d at 2θ=%.3f°: width %g° is not positive, cannot apply Scherrer relation",
		e.PeakIndex, e.AngleTwoTheta, e.FWHMDeg)
}
