package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/timeisseler/da-bess-v2/internal/model"
	"github.com/timeisseler/da-bess-v2/internal/pipeline"
	"github.com/timeisseler/da-bess-v2/internal/window"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load system parameters from a separate YAML (e.g. examples/systems/*.yaml).
	// If both SystemFile and System are provided, System overrides SystemFile.
	SystemFile string         `yaml:"system_file"`
	System     SystemConfig   `yaml:"system"`
	Pipeline   PipelineConfig `yaml:"pipeline"`
	Inputs     InputsConfig   `yaml:"inputs"`
}

type SystemConfig struct {
	Name          string  `yaml:"name"`
	CapacityKWh   float64 `yaml:"capacity_kwh"`
	PowerKW       float64 `yaml:"power_kw"`
	AvgPriceCtKWh float64 `yaml:"avg_price_ct_kwh"`
	DailyCycles   int     `yaml:"daily_cycles"`
}

type PipelineConfig struct {
	Detector          string  `yaml:"detector"`
	MinWindowLen      int     `yaml:"min_window_len"`
	SoCTolerance      float64 `yaml:"soc_tolerance"`
	ActivityThreshold float64 `yaml:"activity_threshold"`
	MaxWindowHours    float64 `yaml:"max_window_hours"`
	RepairBaseline    bool    `yaml:"repair_baseline"`
}

// InputsConfig names the four year series on disk. CSV and JSON are both
// accepted, keyed off the file extension.
type InputsConfig struct {
	Load     string `yaml:"load"`
	PV       string `yaml:"pv"`
	Prices   string `yaml:"prices"`
	Baseline string `yaml:"baseline"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	// If the detector is not provided, default to the constant-SoC scan.
	if c.Pipeline.Detector == "" {
		c.Pipeline.Detector = pipeline.DetectorConstantSoC
	}
	if c.Pipeline.MinWindowLen == 0 {
		c.Pipeline.MinWindowLen = window.DefaultMinLen
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If system_file is set, load it and merge in any explicit overrides from c.System.
	if c.SystemFile != "" {
		systemPath := c.SystemFile
		if !filepath.IsAbs(systemPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), systemPath)
			if _, err := os.Stat(cand); err == nil {
				systemPath = cand
			}
		}
		loaded, err := loadSystemFile(systemPath)
		if err != nil {
			return nil, err
		}
		c.System = MergeSystem(loaded, c.System)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.Pipeline.Detector {
	case pipeline.DetectorConstantSoC, pipeline.DetectorFlexibleArbitrage:
	default:
		return fmt.Errorf("pipeline.detector %q is not a known detector", c.Pipeline.Detector)
	}
	if c.Pipeline.MinWindowLen < 0 {
		return errors.New("pipeline.min_window_len must not be negative")
	}
	if err := c.System.ToParams().Validate(); err != nil {
		return fmt.Errorf("system config invalid: %w", err)
	}
	return nil
}

func (s SystemConfig) ToParams() model.SystemParams {
	return model.SystemParams{
		CapacityKWh:   s.CapacityKWh,
		PowerKW:       s.PowerKW,
		AvgPriceCtKWh: s.AvgPriceCtKWh,
		DailyCycles:   s.DailyCycles,
	}
}

func (p PipelineConfig) ToOptions() pipeline.Options {
	return pipeline.Options{
		Detector:          p.Detector,
		MinWindowLen:      p.MinWindowLen,
		SoCTolerance:      p.SoCTolerance,
		ActivityThreshold: p.ActivityThreshold,
		MaxWindowHours:    p.MaxWindowHours,
		RepairBaseline:    p.RepairBaseline,
	}
}

type systemFileWrapper struct {
	System SystemConfig `yaml:"system"`
}

func loadSystemFile(path string) (SystemConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SystemConfig{}, err
	}
	var w systemFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return SystemConfig{}, err
	}
	return w.System, nil
}

// MergeSystem overlays non-zero fields from override onto base.
// This is used when loading a system file and then applying overrides from the request.
func MergeSystem(base, override SystemConfig) SystemConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityKWh != 0 {
		out.CapacityKWh = override.CapacityKWh
	}
	if override.PowerKW != 0 {
		out.PowerKW = override.PowerKW
	}
	if override.AvgPriceCtKWh != 0 {
		out.AvgPriceCtKWh = override.AvgPriceCtKWh
	}
	if override.DailyCycles != 0 {
		out.DailyCycles = override.DailyCycles
	}
	return out
}
