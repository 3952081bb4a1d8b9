// Package report renders analysis results as figures and HTML documents.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/lattice-data/structure.report/internal/units"
	"github.com/lattice-data/structure.report/internal/xrd"
)

// EnsureDir creates the figure output directory.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	return nil
}

// RegressionPlot writes a PNG of sin²θ against Q for the winning
// hypothesis, with the fitted line overlaid. Mirrors the classic
// lattice-constant determination figure.
func RegressionPlot(result *xrd.AnalysisResult, sampleName, path string) error {
	winner := result.Structure.Winner

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Linear Regression for %s, %s Structure", sampleName, upper(winner.Hypothesis))
	p.X.Label.Text = "Q = h²+k²+l²"
	p.Y.Label.Text = "sin²θ"

	reflections, err := xrd.Reflections(winner.Hypothesis, len(result.Peaks))
	if err != nil {
		return err
	}

	pts := make(plotter.XYs, 0, len(result.Peaks))
	for i, peak := range result.Peaks {
		if i >= len(reflections) {
			break
		}
		s := math.Sin(units.BraggThetaRad(peak.AngleTwoTheta))
		pts = append(pts, plotter.XY{X: float64(reflections[i].Q), Y: s * s})
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	p.Add(scatter)
	p.Legend.Add("Data", scatter)

	// The fit is Q = slope·sin²θ + intercept; invert it for this figure's
	// axis orientation.
	fit := plotter.NewFunction(func(q float64) float64 {
		return (q - winner.Intercept) / winner.Slope
	})
	fit.Samples = 100
	p.Add(fit)
	p.Legend.Add(fmt.Sprintf("Linear fit (r² = %.5f)", winner.RSquared), fit)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save regression plot: %w", err)
	}
	return nil
}

// PatternPlot writes a PNG of the diffraction pattern with the indexed
// peaks annotated by their Miller labels.
func PatternPlot(series xrd.Series, result *xrd.AnalysisResult, sampleName, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Diffraction Pattern with Indexed Peaks for %s", sampleName)
	p.X.Label.Text = "2θ (deg)"
	p.Y.Label.Text = "Intensity (a.u.)"

	pts := make(plotter.XYs, len(series))
	for i, sp := range series {
		pts[i] = plotter.XY{X: sp.AngleTwoTheta, Y: sp.Intensity}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build pattern line: %w", err)
	}
	p.Add(line)
	p.Legend.Add(sampleName+" data", line)

	reflections, err := xrd.Reflections(result.Structure.Winner.Hypothesis, len(result.Peaks))
	if err != nil {
		return err
	}
	labels := plotter.XYLabels{}
	for i, peak := range result.Peaks {
		if i >= len(reflections) {
			break
		}
		labels.XYs = append(labels.XYs, plotter.XY{
			X: peak.AngleTwoTheta,
			Y: series.InterpIntensity(peak.AngleTwoTheta),
		})
		labels.Labels = append(labels.Labels, reflections[i].Label())
	}
	annot, err := plotter.NewLabels(labels)
	if err != nil {
		return fmt.Errorf("failed to build peak labels: %w", err)
	}
	p.Add(annot)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save pattern plot: %w", err)
	}
	return nil
}

// FigurePaths returns the conventional figure file names for a sample.
func FigurePaths(dir, sampleName string) (regression, pattern string) {
	regression = filepath.Join(dir, fmt.Sprintf("lin_reg_%s.png", sampleName))
	pattern = filepath.Join(dir, fmt.Sprintf("diff_pattern_%s.png", sampleName))
	return regression, pattern
}

func upper(h xrd.Hypothesis) string {
	switch h {
	case xrd.FCC:
		return "FCC"
	case xrd.BCC:
		return "BCC"
	}
	return string(h)
}
