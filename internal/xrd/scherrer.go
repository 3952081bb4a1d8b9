package xrd

import (
	"math"

	"github.com/lattice-data/structure.report/internal/units"
)

// DefaultShapeFactor is the Scherrer constant K used when none is
// configured. 0.9 suits roughly spherical crystallites.
const DefaultShapeFactor = 0.9

// EstimateSizes applies the Scherrer relation to every peak:
//
//	size = K·λ / (β·cosθ)
//
// with β the full width at half maximum in radians and θ the Bragg
// angle. Wavelength is in angstrom; sizes are reported in nanometers.
//
// A peak with zero or negative width is physically invalid for the
// relation. Such peaks are skipped and reported in the returned
// diagnostics list rather than aborting the batch, because the
// remaining peaks are still valid.
func EstimateSizes(peaks []Peak, wavelength, shapeFactor float64) ([]SizeEstimate, []*DegenerateWidthError) {
	if shapeFactor <= 0 {
		shapeFactor = DefaultShapeFactor
	}

	var estimates []SizeEstimate
	var skipped []*DegenerateWidthError
	for _, p := range peaks {
		if p.FWHMDeg <= 0 {
			skipped = append(skipped, &DegenerateWidthError{
				PeakIndex:     p.Index,
				AngleTwoTheta: p.AngleTwoTheta,
				FWHMDeg:       p.FWHMDeg,
			})
			continue
		}
		beta := units.DegToRad(p.FWHMDeg)
		theta := units.BraggThetaRad(p.AngleTwoTheta)
		sizeAngstrom := shapeFactor * wavelength / (beta * math.Cos(theta))
		estimates = append(estimates, SizeEstimate{
			PeakIndex:         p.Index,
			AngleTwoTheta:     p.AngleTwoTheta,
			CrystalliteSizeNm: units.AngstromToNanometer(sizeAngstrom),
		})
	}
	return estimates, skipped
}
