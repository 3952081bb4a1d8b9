// Package config loads analysis tuning parameters from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lattice-data/structure.report/internal/units"
)

// TuningConfig holds the recognized analysis options. Fields are
// pointers so that a partial JSON file only overrides what it names;
// the Get* accessors supply defaults for everything else.
type TuningConfig struct {
	// Peak detection params
	HeightFrac *float64 `json:"height_frac,omitempty"`
	Prominence *float64 `json:"prominence,omitempty"`

	// Manually added peak positions (2θ degrees), merged into the
	// detected peak list before indexing. A workaround for detections
	// the tuned thresholds miss.
	ManualPeakAngles []float64 `json:"manual_peak_angles,omitempty"`

	// Instrument params
	Wavelength *float64 `json:"wavelength,omitempty"` // angstrom

	// Structure selection params
	AmbiguityEpsilon   *float64 `json:"ambiguity_epsilon,omitempty"`
	MaxReflectionCount *int     `json:"max_reflection_count,omitempty"`

	// Scherrer params
	ShapeFactor      *float64 `json:"shape_factor,omitempty"`
	BackgroundWindow *int     `json:"background_window,omitempty"` // samples

	// Raw scan cleaning params
	CleanWindow    *int     `json:"clean_window,omitempty"`
	CleanThreshold *float64 `json:"clean_threshold,omitempty"`
	CleanMinAngle  *float64 `json:"clean_min_angle,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *TuningConfig) Validate() error {
	if c.HeightFrac != nil {
		if *c.HeightFrac <= 0 || *c.HeightFrac > 1 {
			return fmt.Errorf("height_frac must be in (0,1], got %f", *c.HeightFrac)
		}
	}
	if c.Prominence != nil && *c.Prominence < 0 {
		return fmt.Errorf("prominence must be non-negative, got %f", *c.Prominence)
	}
	if c.Wavelength != nil && !units.ValidWavelength(*c.Wavelength) {
		return fmt.Errorf("wavelength must be positive, got %f", *c.Wavelength)
	}
	if c.AmbiguityEpsilon != nil && *c.AmbiguityEpsilon <= 0 {
		return fmt.Errorf("ambiguity_epsilon must be positive, got %g", *c.AmbiguityEpsilon)
	}
	if c.MaxReflectionCount != nil && *c.MaxReflectionCount < 2 {
		return fmt.Errorf("max_reflection_count must be at least 2, got %d", *c.MaxReflectionCount)
	}
	if c.ShapeFactor != nil && *c.ShapeFactor <= 0 {
		return fmt.Errorf("shape_factor must be positive, got %f", *c.ShapeFactor)
	}
	for i, a := range c.ManualPeakAngles {
		if a <= 0 {
			return fmt.Errorf("manual_peak_angles[%d] must be a positive 2θ angle, got %f", i, a)
		}
	}
	return nil
}

// GetHeightFrac returns the height_frac value or the default.
func (c *TuningConfig) GetHeightFrac() float64 {
	if c.HeightFrac == nil {
		return 0.05
	}
	return *c.HeightFrac
}

// GetProminence returns the prominence value or the default.
func (c *TuningConfig) GetProminence() float64 {
	if c.Prominence == nil {
		return 1.0
	}
	return *c.Prominence
}

// GetWavelength returns the wavelength value or the Mo Kα default.
func (c *TuningConfig) GetWavelength() float64 {
	if c.Wavelength == nil {
		return units.WavelengthMoKa
	}
	return *c.Wavelength
}

// GetAmbiguityEpsilon returns the ambiguity_epsilon value or the default.
func (c *TuningConfig) GetAmbiguityEpsilon() float64 {
	if c.AmbiguityEpsilon == nil {
		return 1e-6
	}
	return *c.AmbiguityEpsilon
}

// GetMaxReflectionCount returns the max_reflection_count value or the default.
func (c *TuningConfig) GetMaxReflectionCount() int {
	if c.MaxReflectionCount == nil {
		return 12
	}
	return *c.MaxReflectionCount
}

// GetShapeFactor returns the shape_factor value or the default.
func (c *TuningConfig) GetShapeFactor() float64 {
	if c.ShapeFactor == nil {
		return 0.9
	}
	return *c.ShapeFactor
}

// GetBackgroundWindow returns the background_window value or the default.
func (c *TuningConfig) GetBackgroundWindow() int {
	if c.BackgroundWindow == nil {
		return 51
	}
	return *c.BackgroundWindow
}

// GetCleanWindow returns the clean_window value or the default.
func (c *TuningConfig) GetCleanWindow() int {
	if c.CleanWindow == nil {
		return 5
	}
	return *c.CleanWindow
}

// GetCleanThreshold returns the clean_threshold value or the default.
func (c *TuningConfig) GetCleanThreshold() float64 {
	if c.CleanThreshold == nil {
		return 3
	}
	return *c.CleanThreshold
}

// GetCleanMinAngle returns the clean_min_angle value or the default.
func (c *TuningConfig) GetCleanMinAngle() float64 {
	if c.CleanMinAngle == nil {
		return 10
	}
	return *c.CleanMinAngle
}
