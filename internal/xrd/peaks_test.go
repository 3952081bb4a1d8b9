package xrd

import (
	"math"
	"testing"
)

func TestDetectPeaksRecoversSyntheticGaussians(t *testing.T) {
	peaks := []gaussian{
		{center: 20.0, amplitude: 100, sigma: 0.15},
		{center: 35.0, amplitude: 60, sigma: 0.20},
		{center: 52.5, amplitude: 30, sigma: 0.25},
	}
	series := synthSeries(10, 70, 0.01, 2, peaks)

	got, err := DetectPeaks(series, 0.05, 5)
	if err != nil {
		t.Fatalf("DetectPeaks: %v", err)
	}
	if len(got) != len(peaks) {
		t.Fatalf("detected %d peaks, want %d", len(got), len(peaks))
	}

	for i, want := range peaks {
		if d := math.Abs(got[i].AngleTwoTheta - want.center); d > 0.01 {
			t.Errorf("peak %d angle = %.4f, want %.4f ± 0.01", i, got[i].AngleTwoTheta, want.center)
		}
		wantFWHM := fwhmOf(want.sigma)
		if rel := math.Abs(got[i].FWHMDeg-wantFWHM) / wantFWHM; rel > 0.05 {
			t.Errorf("peak %d FWHM = %.4f, want %.4f ± 5%%", i, got[i].FWHMDeg, wantFWHM)
		}
		if got[i].Index != i {
			t.Errorf("peak %d has index %d", i, got[i].Index)
		}
	}
}

func TestDetectPeaksHeightThreshold(t *testing.T) {
	peaks := []gaussian{
		{center: 25.0, amplitude: 100, sigma: 0.15},
		{center: 45.0, amplitude: 3, sigma: 0.15}, // under 5% of max
	}
	series := synthSeries(10, 60, 0.01, 0, peaks)

	got, err := DetectPeaks(series, 0.05, 0)
	if err != nil {
		t.Fatalf("DetectPeaks: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("detected %d peaks, want 1 (small peak under height threshold)", len(got))
	}
	if math.Abs(got[0].AngleTwoTheta-25.0) > 0.01 {
		t.Errorf("kept the wrong peak: 2θ=%.3f", got[0].AngleTwoTheta)
	}
}

func TestDetectPeaksProminence(t *testing.T) {
	// Two overlapping peaks: the smaller one rises only ~56 units above
	// the saddle between them, so its topographic prominence is far
	// below its height.
	peaks := []gaussian{
		{center: 30.0, amplitude: 100, sigma: 0.5},
		{center: 32.0, amplitude: 80, sigma: 0.5},
	}
	series := synthSeries(10, 60, 0.01, 0, peaks)

	strict, err := DetectPeaks(series, 0.01, 60)
	if err != nil {
		t.Fatalf("DetectPeaks: %v", err)
	}
	if len(strict) != 1 {
		t.Fatalf("prominence 60: detected %d peaks, want 1", len(strict))
	}
	if math.Abs(strict[0].AngleTwoTheta-30.0) > 0.05 {
		t.Errorf("kept the wrong peak: 2θ=%.3f", strict[0].AngleTwoTheta)
	}

	loose, err := DetectPeaks(series, 0.01, 10)
	if err != nil {
		t.Fatalf("DetectPeaks: %v", err)
	}
	if len(loose) != 2 {
		t.Fatalf("prominence 10: detected %d peaks, want 2", len(loose))
	}
}

func TestDetectPeaksBoundaryMaximumDiscarded(t *testing.T) {
	// Peak centered at the start of the scan range: its maximum sits on
	// the boundary and its left half-width cannot be measured.
	peaks := []gaussian{
		{center: 10.0, amplitude: 100, sigma: 0.2},
		{center: 30.0, amplitude: 80, sigma: 0.2},
	}
	series := synthSeries(10, 50, 0.01, 0, peaks)

	got, err := DetectPeaks(series, 0.05, 1)
	if err != nil {
		t.Fatalf("DetectPeaks: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("detected %d peaks, want 1 (boundary peak discarded)", len(got))
	}
	if math.Abs(got[0].AngleTwoTheta-30.0) > 0.01 {
		t.Errorf("kept the wrong peak: 2θ=%.3f", got[0].AngleTwoTheta)
	}
}

func TestDetectPeaksParameterValidation(t *testing.T) {
	series := synthSeries(10, 20, 0.1, 0, []gaussian{{center: 15, amplitude: 10, sigma: 0.3}})

	if _, err := DetectPeaks(series, 0, 1); err == nil {
		t.Error("height_frac 0 should be rejected")
	}
	if _, err := DetectPeaks(series, 1.5, 1); err == nil {
		t.Error("height_frac over 1 should be rejected")
	}
	if _, err := DetectPeaks(series, 0.1, -1); err == nil {
		t.Error("negative prominence should be rejected")
	}
}

func TestMergeOverridePeaks(t *testing.T) {
	peaks := []gaussian{
		{center: 20.0, amplitude: 100, sigma: 0.15},
		{center: 40.0, amplitude: 5, sigma: 0.15},
	}
	series := synthSeries(10, 60, 0.01, 0, peaks)

	detected, err := DetectPeaks(series, 0.10, 1)
	if err != nil {
		t.Fatalf("DetectPeaks: %v", err)
	}
	if len(detected) != 1 {
		t.Fatalf("setup: detected %d peaks, want 1", len(detected))
	}

	t.Run("adds missed peak in order", func(t *testing.T) {
		merged := MergeOverridePeaks(series, detected, []float64{40.0})
		if len(merged) != 2 {
			t.Fatalf("merged %d peaks, want 2", len(merged))
		}
		if merged[0].AngleTwoTheta > merged[1].AngleTwoTheta {
			t.Error("merged peaks not sorted by angle")
		}
		if merged[0].Index != 0 || merged[1].Index != 1 {
			t.Errorf("merged peaks not reindexed: %d, %d", merged[0].Index, merged[1].Index)
		}
	})

	t.Run("drops duplicate override", func(t *testing.T) {
		merged := MergeOverridePeaks(series, detected, []float64{20.0})
		if len(merged) != 1 {
			t.Fatalf("merged %d peaks, want 1 (override duplicates detection)", len(merged))
		}
	})
}
