// Command structure.report determines the lattice constant and cubic
// structure type (fcc or bcc) of a powder sample from an X-ray
// diffraction scan, with optional scan cleaning, Scherrer
// crystallite-size estimation, figures, and a results database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lattice-data/structure.report/internal/clean"
	"github.com/lattice-data/structure.report/internal/config"
	"github.com/lattice-data/structure.report/internal/report"
	"github.com/lattice-data/structure.report/internal/resultsdb"
	"github.com/lattice-data/structure.report/internal/scanio"
	"github.com/lattice-data/structure.report/internal/version"
	"github.com/lattice-data/structure.report/internal/xrd"
)

var (
	configPath = flag.String("config", "", "Path to JSON tuning config (optional)")
	wavelength = flag.Float64("wavelength", 0, "X-ray wavelength in Å (overrides config; default Mo Kα 0.7107)")
	cleanFlag  = flag.Bool("clean", false, "Despike raw Sample*.txt files in the data directory and analyze the filtered scan")
	sizeFlag   = flag.Bool("size", false, "Also estimate crystallite sizes via the Scherrer relation")
	plotsDir   = flag.String("plots", "", "Directory for PNG figures (omit to skip plotting)")
	reportPath = flag.String("report", "", "Path for an HTML report (omit to skip)")
	dbPath     = flag.String("db", "", "Path to a sqlite results database (omit to skip persistence)")
	showVer    = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <datafile>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVer {
		fmt.Printf("structure.report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	datafile := flag.Arg(0)

	if err := run(datafile); err != nil {
		var ambiguous *xrd.AmbiguousStructureError
		if errors.As(err, &ambiguous) {
			log.Fatalf("analysis inconclusive: %v (inspect both fits manually)", err)
		}
		var insufficient *xrd.InsufficientPeaksError
		if errors.As(err, &insufficient) {
			log.Fatalf("analysis failed: %v (retune -config height_frac/prominence)", err)
		}
		log.Fatalf("analysis failed: %v", err)
	}
}

func run(datafile string) error {
	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	lambda := cfg.GetWavelength()
	if *wavelength > 0 {
		lambda = *wavelength
	}

	if *cleanFlag {
		cleaned, err := cleanRawScans(datafile, cfg)
		if err != nil {
			return err
		}
		datafile = cleaned
		log.Printf("using filtered data file: %s", datafile)
	}

	series, err := scanio.Load(datafile)
	if err != nil {
		return err
	}
	if err := series.Validate(); err != nil {
		return fmt.Errorf("%s: %w", datafile, err)
	}

	result, err := xrd.Analyze(series, xrd.Params{
		HeightFrac:         cfg.GetHeightFrac(),
		Prominence:         cfg.GetProminence(),
		Wavelength:         lambda,
		AmbiguityEpsilon:   cfg.GetAmbiguityEpsilon(),
		MaxReflectionCount: cfg.GetMaxReflectionCount(),
		ManualPeakAngles:   cfg.ManualPeakAngles,
	})
	if err != nil {
		return err
	}

	for _, fit := range []xrd.RegressionFit{result.FitFCC, result.FitBCC} {
		log.Printf("structure %s: slope=%.5e intercept=%.5e r²=%.5f a=%.5f Å",
			fit.Hypothesis, fit.Slope, fit.Intercept, fit.RSquared, fit.LatticeConstant)
	}
	winner := result.Structure.Winner
	log.Printf("determined structure: %s", winner.Hypothesis)
	log.Printf("lattice constant a = %.5f Å (r² = %.5f, %d peaks)",
		winner.LatticeConstant, winner.RSquared, len(result.Peaks))

	var sizes []xrd.SizeEstimate
	var skipped []*xrd.DegenerateWidthError
	if *sizeFlag {
		backsub := xrd.SubtractBackground(series, cfg.GetBackgroundWindow())
		peaks, err := xrd.DetectPeaks(backsub, cfg.GetHeightFrac(), cfg.GetProminence())
		if err != nil {
			return fmt.Errorf("size estimation: %w", err)
		}
		sizes, skipped = xrd.EstimateSizes(peaks, lambda, cfg.GetShapeFactor())
		for _, e := range sizes {
			log.Printf("peak %d at 2θ=%.3f°: crystallite size %.2f nm", e.PeakIndex, e.AngleTwoTheta, e.CrystalliteSizeNm)
		}
		for _, s := range skipped {
			log.Printf("skipped: %v", s)
		}
	}

	sampleName := "sample" + scanio.SampleNumber(datafile)

	if *plotsDir != "" {
		if err := report.EnsureDir(*plotsDir); err != nil {
			return err
		}
		regPath, patPath := report.FigurePaths(*plotsDir, sampleName)
		if err := report.RegressionPlot(result, sampleName, regPath); err != nil {
			return err
		}
		if err := report.PatternPlot(series, result, sampleName, patPath); err != nil {
			return err
		}
		log.Printf("wrote figures %s and %s", regPath, patPath)
	}

	if *reportPath != "" {
		if err := report.WriteHTML(series, result, sampleName, *reportPath); err != nil {
			return err
		}
		log.Printf("wrote report %s", *reportPath)
	}

	if *dbPath != "" {
		db, err := resultsdb.Open(*dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runID, err := db.RecordRun(result, datafile, lambda)
		if err != nil {
			return err
		}
		if *sizeFlag {
			if err := db.RecordSizes(runID, sizes, skipped); err != nil {
				return err
			}
		}
		log.Printf("recorded run %s in %s", runID, *dbPath)
	}

	return nil
}

// cleanRawScans despikes every Sample*.txt next to datafile and returns
// the filtered counterpart of datafile itself.
func cleanRawScans(datafile string, cfg *config.TuningConfig) (string, error) {
	cleanCfg := clean.Config{
		Window:              cfg.GetCleanWindow(),
		ThresholdMultiplier: cfg.GetCleanThreshold(),
		MinAngleDeg:         cfg.GetCleanMinAngle(),
	}

	pattern := filepath.Join(filepath.Dir(datafile), "Sample*.txt")
	raws, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("failed to list raw scans: %w", err)
	}
	if len(raws) == 0 {
		raws = []string{datafile}
	}

	for _, raw := range raws {
		series, err := scanio.Load(raw)
		if err != nil {
			return "", err
		}
		filtered := clean.Despike(series, cleanCfg)
		outPath, err := scanio.FilteredPath(raw)
		if err != nil {
			return "", err
		}
		if err := scanio.Save(outPath, filtered); err != nil {
			return "", err
		}
		log.Printf("saved filtered data to %s", outPath)
	}

	return scanio.FilteredPath(datafile)
}
