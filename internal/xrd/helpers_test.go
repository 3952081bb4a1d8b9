package xrd

import (
	"math"

	"github.com/lattice-data/structure.report/internal/units"
)

// gaussian describes one synthetic diffraction peak.
type gaussian struct {
	center    float64 // 2θ degrees
	amplitude float64
	sigma     float64 // degrees
}

// fwhmOf converts a Gaussian sigma to its full width at half maximum.
func fwhmOf(sigma float64) float64 {
	return 2 * math.Sqrt(2*math.Ln2) * sigma
}

// synthSeries builds a scan of summed Gaussians on a flat baseline.
func synthSeries(start, stop, step, baseline float64, peaks []gaussian) Series {
	var series Series
	for angle := start; angle <= stop; angle += step {
		intensity := baseline
		for _, g := range peaks {
			d := angle - g.center
			intensity += g.amplitude * math.Exp(-d*d/(2*g.sigma*g.sigma))
		}
		series = append(series, ScanPoint{AngleTwoTheta: angle, Intensity: intensity})
	}
	return series
}

// braggAngle returns the 2θ position (degrees) of the reflection with
// the given Q for a cubic lattice constant a and wavelength λ, both in
// angstrom.
func braggAngle(q int, latticeConstant, wavelength float64) float64 {
	sin2 := wavelength * wavelength * float64(q) / (4 * latticeConstant * latticeConstant)
	theta := math.Asin(math.Sqrt(sin2))
	return 2 * units.RadToDeg(theta)
}
