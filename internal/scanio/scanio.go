// Package scanio reads and writes two-column diffraction scan files:
// tab-separated 2θ (degrees) and intensity, one sample per line.
package scanio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/lattice-data/structure.report/internal/xrd"
)

var sampleNumberRe = regexp.MustCompile(`(?i)sample(\d+)`)

// Load reads a scan file. Blank lines and lines starting with '#' are
// skipped; fields may be separated by tabs or runs of spaces.
func Load(path string) (xrd.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scan file: %w", err)
	}
	defer f.Close()

	var series xrd.Series
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s:%d: expected two columns, got %q", path, lineNo, line)
		}
		angle, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad angle: %w", path, lineNo, err)
		}
		intensity, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad intensity: %w", path, lineNo, err)
		}
		series = append(series, xrd.ScanPoint{AngleTwoTheta: angle, Intensity: intensity})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scan file: %w", err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%s: no data lines", path)
	}
	return series, nil
}

// Save writes a scan as tab-separated two-column text.
func Save(path string, series xrd.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scan file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range series {
		fmt.Fprintf(w, "%g\t%g\n", p.AngleTwoTheta, p.Intensity)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write scan file: %w", err)
	}
	return nil
}

// FilteredPath maps a raw scan path to its cleaned counterpart using the
// lab naming convention: samples/Sample1.txt → samples/filtered_sample1.xy.
// Returns an error when the filename carries no sample number.
func FilteredPath(rawPath string) (string, error) {
	base := filepath.Base(rawPath)
	m := sampleNumberRe.FindStringSubmatch(base)
	if m == nil {
		return "", fmt.Errorf("cannot determine sample number from %q", base)
	}
	name := fmt.Sprintf("filtered_sample%s.xy", m[1])
	return filepath.Join(filepath.Dir(rawPath), name), nil
}

// SampleNumber extracts the numeric sample id from a scan filename, or
// "unknown" when there is none. Used for figure and report naming.
func SampleNumber(path string) string {
	m := sampleNumberRe.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "unknown"
	}
	return m[1]
}
