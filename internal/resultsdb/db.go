// Package resultsdb persists analysis runs, per-hypothesis fits, and
// crystallite-size estimates in a local sqlite database.
package resultsdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lattice-data/structure.report/internal/xrd"
)

type DB struct {
	*sql.DB
}

// RunSummary is one row of the analysis_runs table.
type RunSummary struct {
	RunID           string
	SourceFile      string
	Wavelength      float64
	Structure       string
	LatticeConstant float64
	RSquared        float64
	PeakCount       int
	CreatedAt       time.Time
}

// Open opens (creating if needed) the results database at path and
// applies any pending schema migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// RecordRun stores a completed analysis with both hypothesis fits and
// returns the generated run id.
func (db *DB) RecordRun(result *xrd.AnalysisResult, sourceFile string, wavelength float64) (string, error) {
	runID := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO analysis_runs (run_id, source_file, wavelength, structure, lattice_constant, r_squared, peak_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, sourceFile, wavelength,
		string(result.Structure.Winner.Hypothesis),
		result.Structure.Winner.LatticeConstant,
		result.Structure.Winner.RSquared,
		len(result.Peaks),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert analysis run: %w", err)
	}

	for _, fit := range []xrd.RegressionFit{result.FitFCC, result.FitBCC} {
		_, err = tx.Exec(`
			INSERT INTO hypothesis_fits (run_id, hypothesis, slope, intercept, r_squared, lattice_constant)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, string(fit.Hypothesis), fit.Slope, fit.Intercept, fit.RSquared, fit.LatticeConstant,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert %s fit: %w", fit.Hypothesis, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit analysis run: %w", err)
	}
	return runID, nil
}

// RecordSizes stores crystallite-size estimates and skip diagnostics for
// a run.
func (db *DB) RecordSizes(runID string, estimates []xrd.SizeEstimate, skipped []*xrd.DegenerateWidthError) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range estimates {
		_, err = tx.Exec(`
			INSERT INTO size_estimates (run_id, peak_index, angle_two_theta, size_nm)
			VALUES (?, ?, ?, ?)`,
			runID, e.PeakIndex, e.AngleTwoTheta, e.CrystalliteSizeNm,
		)
		if err != nil {
			return fmt.Errorf("failed to insert size estimate for peak %d: %w", e.PeakIndex, err)
		}
	}
	for _, s := range skipped {
		_, err = tx.Exec(`
			INSERT INTO size_estimates (run_id, peak_index, angle_two_theta, skip_reason)
			VALUES (?, ?, ?, ?)`,
			runID, s.PeakIndex, s.AngleTwoTheta, s.Error(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert skip diagnostic for peak %d: %w", s.PeakIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit size estimates: %w", err)
	}
	return nil
}

// GetRun fetches one stored run by id.
func (db *DB) GetRun(runID string) (*RunSummary, error) {
	row := db.QueryRow(`
		SELECT run_id, source_file, wavelength, structure, lattice_constant, r_squared, peak_count, created_at
		FROM analysis_runs WHERE run_id = ?`, runID)

	var r RunSummary
	err := row.Scan(&r.RunID, &r.SourceFile, &r.Wavelength, &r.Structure,
		&r.LatticeConstant, &r.RSquared, &r.PeakCount, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	return &r, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, source_file, wavelength, structure, lattice_constant, r_squared, peak_count, created_at
		FROM analysis_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.SourceFile, &r.Wavelength, &r.Structure,
			&r.LatticeConstant, &r.RSquared, &r.PeakCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
