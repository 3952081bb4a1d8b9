// Package units provides shared constants and conversions for diffraction
// angles and crystallographic lengths
package units

import "math"

// Common X-ray source wavelengths in angstrom
const (
	WavelengthMoKa = 0.7107 // Mo Kα, the lab default
	WavelengthCuKa = 1.5406 // Cu Kα1
)

// AngstromPerNanometer is the number of angstrom in one nanometer
const AngstromPerNanometer = 10.0

// DegToRad converts an angle in degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts an angle in radians to degrees
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// BraggThetaRad returns the Bragg angle θ in radians for a measured
// scattering angle 2θ in degrees
func BraggThetaRad(twoThetaDeg float64) float64 {
	return DegToRad(twoThetaDeg / 2.0)
}

// AngstromToNanometer converts a length in angstrom to nanometers
func AngstromToNanometer(angstrom float64) float64 {
	return angstrom / AngstromPerNanometer
}

// ValidWavelength checks that a wavelength is physically usable for
// diffraction analysis (positive and finite)
func ValidWavelength(wavelengthAngstrom float64) bool {
	return wavelengthAngstrom > 0 && !math.IsInf(wavelengthAngstrom, 1) && !math.IsNaN(wavelengthAngstrom)
}
