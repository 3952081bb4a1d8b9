package xrd

import (
	"fmt"
	"sort"
)

// overrideMergeToleranceDeg is how close (in 2θ degrees) a manual
// override may sit to an already-detected peak before it is treated as a
// duplicate and dropped.
const overrideMergeToleranceDeg = 0.05

// DetectPeaks finds diffraction peaks in a clean scan.
//
// A sample is a candidate when it is a local intensity maximum, its
// height is at least heightFrac of the series maximum, and its
// topographic prominence is at least prominence. The full width at half
// maximum is measured by scanning outward from the maximum until the
// intensity falls below half the peak height above its local baseline,
// with linear interpolation between samples. Maxima at the series
// boundary, or whose half-height crossing runs off either end, are
// discarded because no width can be estimated for them.
//
// Detection is parameter sensitive on purpose: retuning heightFrac and
// prominence per instrument and sample is an expected operator action.
func DetectPeaks(series Series, heightFrac, prominence float64) ([]Peak, error) {
	if heightFrac <= 0 || heightFrac > 1 {
		return nil, fmt.Errorf("height_frac must be in (0,1], got %g", heightFrac)
	}
	if prominence < 0 {
		return nil, fmt.Errorf("prominence must be non-negative, got %g", prominence)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scan series: %w", err)
	}

	threshold := heightFrac * series.MaxIntensity()

	var peaks []Peak
	for _, m := range localMaxima(series) {
		p, ok := measurePeakAt(series, m, threshold, prominence)
		if ok {
			peaks = append(peaks, p)
		}
	}
	for i := range peaks {
		peaks[i].Index = i
	}
	return peaks, nil
}

// MergeOverridePeaks merges manually specified peak positions into a
// detected peak list. Each override angle is snapped to the nearest scan
// sample and measured with the same width estimate as detected peaks.
// Overrides that duplicate an existing peak, or whose width cannot be
// measured, are dropped. The merged list is re-sorted by angle and
// re-indexed.
func MergeOverridePeaks(series Series, peaks []Peak, overrideAngles []float64) []Peak {
	merged := append([]Peak(nil), peaks...)
	for _, angle := range overrideAngles {
		if dup := hasPeakNear(merged, angle); dup {
			continue
		}
		m := nearestSample(series, angle)
		if m <= 0 || m >= len(series)-1 {
			continue
		}
		// No height or prominence gate for operator-added peaks.
		p, ok := measurePeakAt(series, m, 0, 0)
		if !ok {
			continue
		}
		merged = append(merged, p)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].AngleTwoTheta < merged[j].AngleTwoTheta
	})
	for i := range merged {
		merged[i].Index = i
	}
	return merged
}

// localMaxima returns sample indices of interior local maxima. A plateau
// of equal samples flanked by strictly lower neighbours yields its
// midpoint. Boundary samples are never maxima.
func localMaxima(series Series) []int {
	var out []int
	n := len(series)
	i := 1
	for i < n-1 {
		if series[i].Intensity <= series[i-1].Intensity {
			i++
			continue
		}
		// Rising edge; advance across any plateau.
		j := i
		for j < n-1 && series[j+1].Intensity == series[i].Intensity {
			j++
		}
		if j < n-1 && series[j+1].Intensity < series[i].Intensity {
			out = append(out, (i+j)/2)
		}
		i = j + 1
	}
	return out
}

// peakBases walks outward from a maximum until a higher sample or the
// series edge is reached, returning the minimum intensity seen on each
// side. The larger of the two is the peak's local baseline; height above
// that baseline is its topographic prominence.
func peakBases(series Series, m int) (leftMin, rightMin float64) {
	h := series[m].Intensity
	leftMin = h
	for i := m - 1; i >= 0 && series[i].Intensity <= h; i-- {
		if series[i].Intensity < leftMin {
			leftMin = series[i].Intensity
		}
	}
	rightMin = h
	for i := m + 1; i < len(series) && series[i].Intensity <= h; i++ {
		if series[i].Intensity < rightMin {
			rightMin = series[i].Intensity
		}
	}
	return leftMin, rightMin
}

// measurePeakAt applies the height, prominence, and width checks for the
// maximum at sample m, returning the measured Peak when all pass.
func measurePeakAt(series Series, m int, threshold, prominence float64) (Peak, bool) {
	h := series[m].Intensity
	if h < threshold {
		return Peak{}, false
	}
	leftMin, rightMin := peakBases(series, m)
	baseline := leftMin
	if rightMin > baseline {
		baseline = rightMin
	}
	if h-baseline < prominence {
		return Peak{}, false
	}

	half := baseline + (h-baseline)/2
	left, ok := halfCrossing(series, m, -1, half)
	if !ok {
		return Peak{}, false
	}
	right, ok := halfCrossing(series, m, +1, half)
	if !ok {
		return Peak{}, false
	}
	return Peak{
		AngleTwoTheta: series[m].AngleTwoTheta,
		Intensity:     h,
		FWHMDeg:       right - left,
	}, true
}

// halfCrossing scans from sample m in the given direction for the angle
// at which the intensity drops below the half level, interpolating
// between the straddling samples. Returns false if the scan runs off the
// series before crossing.
func halfCrossing(series Series, m, dir int, half float64) (float64, bool) {
	for i := m + dir; i >= 0 && i < len(series); i += dir {
		if series[i].Intensity < half {
			inner := series[i-dir]
			outer := series[i]
			t := (inner.Intensity - half) / (inner.Intensity - outer.Intensity)
			return inner.AngleTwoTheta + t*(outer.AngleTwoTheta-inner.AngleTwoTheta), true
		}
	}
	return 0, false
}

func nearestSample(series Series, angle float64) int {
	best, bestDist := -1, 0.0
	for i, p := range series {
		d := p.AngleTwoTheta - angle
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func hasPeakNear(peaks []Peak, angle float64) bool {
	for _, p := range peaks {
		d := p.AngleTwoTheta - angle
		if d < 0 {
			d = -d
		}
		if d <= overrideMergeToleranceDeg {
			return true
		}
	}
	return false
}
