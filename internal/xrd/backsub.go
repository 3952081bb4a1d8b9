package xrd

// SubtractBackground removes a slowly varying background from a scan by
// subtracting a rolling-minimum baseline. The window is in samples and
// should be several times wider than the broadest peak so that peaks do
// not pull the baseline up. Subtracted intensities are clamped at zero.
//
// The input series is not modified; a new series is returned.
func SubtractBackground(series Series, window int) Series {
	if window < 3 {
		window = 3
	}
	if len(series) == 0 {
		return nil
	}

	half := window / 2
	out := make(Series, len(series))
	for i, p := range series {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(series)-1 {
			hi = len(series) - 1
		}
		baseline := series[lo].Intensity
		for j := lo + 1; j <= hi; j++ {
			if series[j].Intensity < baseline {
				baseline = series[j].Intensity
			}
		}
		v := p.Intensity - baseline
		if v < 0 {
			v = 0
		}
		out[i] = ScanPoint{AngleTwoTheta: p.AngleTwoTheta, Intensity: v}
	}
	return out
}
