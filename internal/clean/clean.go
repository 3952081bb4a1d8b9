// Package clean despikes raw diffractometer scans with a rolling
// median/MAD filter, producing the clean series the analysis pipeline
// consumes.
package clean

import (
	"sort"

	"github.com/lattice-data/structure.report/internal/xrd"
)

// Config holds the despiking parameters.
type Config struct {
	Window              int     // rolling window size, samples
	ThresholdMultiplier float64 // reject when |I - median| > mult·(MAD + eps)
	MinAngleDeg         float64 // drop all points at or below this 2θ
}

// DefaultConfig matches the lab's standard cleaning settings.
func DefaultConfig() Config {
	return Config{
		Window:              5,
		ThresholdMultiplier: 3,
		MinAngleDeg:         10,
	}
}

// madEpsilon keeps the rejection threshold non-zero in flat regions
// where the MAD collapses to zero.
const madEpsilon = 1e-6

// Despike removes outlier samples from a raw scan. A point survives when
// its intensity sits within ThresholdMultiplier times the rolling median
// absolute deviation of its window. Points below MinAngleDeg are dropped
// outright (beam-stop region).
func Despike(raw xrd.Series, cfg Config) xrd.Series {
	if cfg.Window < 3 {
		cfg.Window = 3
	}
	if cfg.ThresholdMultiplier <= 0 {
		cfg.ThresholdMultiplier = 3
	}

	var trimmed xrd.Series
	for _, p := range raw {
		if p.AngleTwoTheta > cfg.MinAngleDeg {
			trimmed = append(trimmed, p)
		}
	}
	if len(trimmed) == 0 {
		return nil
	}

	half := cfg.Window / 2
	out := make(xrd.Series, 0, len(trimmed))
	for i, p := range trimmed {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(trimmed)-1 {
			hi = len(trimmed) - 1
		}

		window := make([]float64, 0, hi-lo+1)
		for j := lo; j <= hi; j++ {
			window = append(window, trimmed[j].Intensity)
		}
		med := median(window)

		devs := make([]float64, len(window))
		for j, v := range window {
			d := v - med
			if d < 0 {
				d = -d
			}
			devs[j] = d
		}
		mad := median(devs)

		diff := p.Intensity - med
		if diff < 0 {
			diff = -diff
		}
		if diff <= cfg.ThresholdMultiplier*(mad+madEpsilon) {
			out = append(out, p)
		}
	}
	return out
}

// median returns the middle value of vals. The slice is copied, not
// reordered in place.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
