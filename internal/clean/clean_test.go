package clean

import (
	"math"
	"testing"

	"github.com/lattice-data/structure.report/internal/xrd"
)

func smoothScan(start, stop, step float64) xrd.Series {
	var series xrd.Series
	for angle := start; angle <= stop; angle += step {
		d := angle - 30
		intensity := 50 + 200*math.Exp(-d*d/(2*0.25))
		series = append(series, xrd.ScanPoint{AngleTwoTheta: angle, Intensity: intensity})
	}
	return series
}

func TestDespikeRemovesOutliers(t *testing.T) {
	series := smoothScan(15, 45, 0.05)

	// Inject detector spikes well away from the peak.
	spiked := append(xrd.Series(nil), series...)
	spikeIdx := []int{40, 200, 400}
	for _, i := range spikeIdx {
		spiked[i].Intensity *= 20
	}

	out := Despike(spiked, DefaultConfig())

	for _, i := range spikeIdx {
		angle := spiked[i].AngleTwoTheta
		for _, p := range out {
			if p.AngleTwoTheta == angle && p.Intensity == spiked[i].Intensity {
				t.Errorf("spike at 2θ=%.2f survived despiking", angle)
			}
		}
	}
	// Despiking must not gut the scan.
	if len(out) < len(spiked)-10 {
		t.Errorf("despiking removed %d of %d points", len(spiked)-len(out), len(spiked))
	}
}

func TestDespikeKeepsRealPeaks(t *testing.T) {
	series := smoothScan(15, 45, 0.05)

	out := Despike(series, DefaultConfig())

	apex := 0.0
	for _, p := range out {
		if p.Intensity > apex {
			apex = p.Intensity
		}
	}
	if apex < 240 {
		t.Errorf("real peak damaged: apex %v, want ~250", apex)
	}
}

func TestDespikeDropsLowAngles(t *testing.T) {
	series := xrd.Series{
		{AngleTwoTheta: 5, Intensity: 1000}, // beam-stop region
		{AngleTwoTheta: 8, Intensity: 900},
		{AngleTwoTheta: 15, Intensity: 50},
		{AngleTwoTheta: 16, Intensity: 50},
		{AngleTwoTheta: 17, Intensity: 50},
	}

	out := Despike(series, DefaultConfig())

	for _, p := range out {
		if p.AngleTwoTheta <= 10 {
			t.Errorf("point at 2θ=%.1f should have been trimmed", p.AngleTwoTheta)
		}
	}
	if len(out) != 3 {
		t.Errorf("kept %d points, want 3", len(out))
	}
}

func TestDespikeEmptyAfterTrim(t *testing.T) {
	series := xrd.Series{{AngleTwoTheta: 5, Intensity: 10}}
	if out := Despike(series, DefaultConfig()); out != nil {
		t.Errorf("expected nil for fully trimmed scan, got %d points", len(out))
	}
}
