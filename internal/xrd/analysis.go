package xrd

import (
	"fmt"
	"sync"

	"github.com/lattice-data/structure.report/internal/units"
)

// Params collects the tuning knobs for a structure analysis.
type Params struct {
	HeightFrac         float64   // peak height threshold as fraction of max intensity
	Prominence         float64   // minimum topographic prominence, intensity units
	Wavelength         float64   // instrument wavelength, angstrom (required)
	AmbiguityEpsilon   float64   // r² tie tolerance for structure selection
	MaxReflectionCount int       // reflection table length per hypothesis
	ManualPeakAngles   []float64 // operator-supplied 2θ positions merged into detection
}

// AnalysisResult holds everything a structure analysis produced.
type AnalysisResult struct {
	Structure StructureResult
	FitFCC    RegressionFit
	FitBCC    RegressionFit
	Peaks     []Peak
}

// Analyze runs the full determination pipeline on a clean scan: peak
// detection, reflection indexing, one regression per lattice
// hypothesis, and structure selection.
//
// The two hypothesis fits are independent (they share the immutable
// peak list and read disjoint reflection tables), so they run
// concurrently.
func Analyze(series Series, p Params) (*AnalysisResult, error) {
	if !units.ValidWavelength(p.Wavelength) {
		return nil, fmt.Errorf("wavelength must be a positive number of angstrom, got %g", p.Wavelength)
	}
	n := p.MaxReflectionCount
	if n <= 0 {
		n = DefaultMaxReflectionCount
	}

	peaks, err := DetectPeaks(series, p.HeightFrac, p.Prominence)
	if err != nil {
		return nil, err
	}
	if len(p.ManualPeakAngles) > 0 {
		peaks = MergeOverridePeaks(series, peaks, p.ManualPeakAngles)
	}
	if len(peaks) < 2 {
		return nil, &InsufficientPeaksError{
			Found:      len(peaks),
			HeightFrac: p.HeightFrac,
			Prominence: p.Prominence,
		}
	}

	reflFCC, err := Reflections(FCC, n)
	if err != nil {
		return nil, err
	}
	reflBCC, err := Reflections(BCC, n)
	if err != nil {
		return nil, err
	}

	var (
		wg             sync.WaitGroup
		fitFCC, fitBCC RegressionFit
		errFCC, errBCC error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		fitFCC, errFCC = FitLattice(peaks, reflFCC, p.Wavelength)
	}()
	go func() {
		defer wg.Done()
		fitBCC, errBCC = FitLattice(peaks, reflBCC, p.Wavelength)
	}()
	wg.Wait()

	if errFCC != nil {
		return nil, fmt.Errorf("fcc fit: %w", errFCC)
	}
	if errBCC != nil {
		return nil, fmt.Errorf("bcc fit: %w", errBCC)
	}

	structure, err := SelectStructure(fitFCC, fitBCC, p.AmbiguityEpsilon)
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{
		Structure: structure,
		FitFCC:    fitFCC,
		FitBCC:    fitBCC,
		Peaks:     peaks,
	}, nil
}
