package report

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lattice-data/structure.report/internal/units"
	"github.com/lattice-data/structure.report/internal/xrd"
)

// WriteHTML renders a self-contained HTML report with the diffraction
// pattern and the winning regression as interactive charts.
func WriteHTML(series xrd.Series, result *xrd.AnalysisResult, sampleName, path string) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("XRD analysis — %s", sampleName)

	pattern, err := patternChart(series, result, sampleName)
	if err != nil {
		return err
	}
	regression, err := regressionChart(result)
	if err != nil {
		return err
	}
	page.AddCharts(pattern, regression)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func patternChart(series xrd.Series, result *xrd.AnalysisResult, sampleName string) (*charts.Line, error) {
	line := charts.NewLine()
	winner := result.Structure.Winner
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Diffraction Pattern — %s", sampleName),
			Subtitle: fmt.Sprintf("structure=%s a=%.5f Å r²=%.5f",
				winner.Hypothesis, winner.LatticeConstant, winner.RSquared),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "2θ (deg)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Intensity (a.u.)"}),
	)

	angles := make([]string, len(series))
	data := make([]opts.LineData, len(series))
	for i, p := range series {
		angles[i] = fmt.Sprintf("%.3f", p.AngleTwoTheta)
		data[i] = opts.LineData{Value: p.Intensity}
	}
	line.SetXAxis(angles).AddSeries("scan", data)
	return line, nil
}

func regressionChart(result *xrd.AnalysisResult) (*charts.Scatter, error) {
	winner := result.Structure.Winner
	reflections, err := xrd.Reflections(winner.Hypothesis, len(result.Peaks))
	if err != nil {
		return nil, err
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("sin²θ vs Q — %s", winner.Hypothesis),
			Subtitle: fmt.Sprintf("slope=%.5e intercept=%.5e", winner.Slope, winner.Intercept),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Q = h²+k²+l²", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "sin²θ"}),
	)

	data := make([]opts.ScatterData, 0, len(result.Peaks))
	for i, peak := range result.Peaks {
		if i >= len(reflections) {
			break
		}
		s := math.Sin(units.BraggThetaRad(peak.AngleTwoTheta))
		data = append(data, opts.ScatterData{
			Value: []interface{}{reflections[i].Q, s * s},
			Name:  reflections[i].Label(),
		})
	}
	scatter.AddSeries("peaks", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	return scatter, nil
}
