package xrd

import "math"

// DefaultAmbiguityEpsilon is the default r² tie tolerance for structure
// selection.
const DefaultAmbiguityEpsilon = 1e-6

// SelectStructure picks the lattice hypothesis with the better linear
// fit. A strictly better r² indicates the reflection table whose
// selection rule matches the sample, hence the correct structure.
//
// When the two r² values differ by less than epsilon the data cannot
// distinguish the structures; that is surfaced as an
// AmbiguousStructureError instead of an arbitrary pick, since a silent
// guess would corrupt the reported lattice constant.
func SelectStructure(fitFCC, fitBCC RegressionFit, epsilon float64) (StructureResult, error) {
	if epsilon <= 0 {
		epsilon = DefaultAmbiguityEpsilon
	}
	if math.Abs(fitFCC.RSquared-fitBCC.RSquared) < epsilon {
		return StructureResult{}, &AmbiguousStructureError{
			RSquaredFCC: fitFCC.RSquared,
			RSquaredBCC: fitBCC.RSquared,
			Epsilon:     epsilon,
		}
	}
	if fitFCC.RSquared > fitBCC.RSquared {
		return StructureResult{Winner: fitFCC, Discarded: fitBCC}, nil
	}
	return StructureResult{Winner: fitBCC, Discarded: fitFCC}, nil
}
