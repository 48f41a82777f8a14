package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeisseler/da-bess-v2/internal/pipeline"
	"github.com/timeisseler/da-bess-v2/internal/window"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
system:
  name: plant-a
  capacity_kwh: 100
  power_kw: 100
  avg_price_ct_kwh: 18
  daily_cycles: 2
inputs:
  load: load.csv
  pv: pv.csv
  prices: prices.csv
  baseline: baseline.csv
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, pipeline.DetectorConstantSoC, cfg.Pipeline.Detector)
	assert.Equal(t, window.DefaultMinLen, cfg.Pipeline.MinWindowLen)
	assert.Equal(t, "plant-a", cfg.System.Name)
	assert.Equal(t, "load.csv", cfg.Inputs.Load)

	params := cfg.System.ToParams()
	require.NoError(t, params.Validate())
	assert.InDelta(t, 100.0, params.CapacityKWh, 1e-9)
}

func TestLoadSystemFileWithOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "system.yaml", `
system:
  name: preset
  capacity_kwh: 200
  power_kw: 150
  avg_price_ct_kwh: 20
  daily_cycles: 1
`)
	path := writeFile(t, dir, "config.yaml", `
system_file: system.yaml
system:
  power_kw: 100
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	// Preset values survive, explicit override wins.
	assert.Equal(t, "preset", cfg.System.Name)
	assert.InDelta(t, 200.0, cfg.System.CapacityKWh, 1e-9)
	assert.InDelta(t, 100.0, cfg.System.PowerKW, 1e-9)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("unknown detector", func(t *testing.T) {
		path := writeFile(t, dir, "bad-detector.yaml", `
system:
  capacity_kwh: 100
  power_kw: 100
  avg_price_ct_kwh: 18
  daily_cycles: 2
pipeline:
  detector: magic
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "detector")
	})

	t.Run("invalid system", func(t *testing.T) {
		path := writeFile(t, dir, "bad-system.yaml", `
system:
  capacity_kwh: 0
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "system config invalid")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestPipelineConfigToOptions(t *testing.T) {
	p := PipelineConfig{
		Detector:          pipeline.DetectorFlexibleArbitrage,
		MinWindowLen:      16,
		SoCTolerance:      0.04,
		ActivityThreshold: 0.2,
		MaxWindowHours:    6,
		RepairBaseline:    true,
	}
	opts := p.ToOptions()
	assert.Equal(t, pipeline.DetectorFlexibleArbitrage, opts.Detector)
	assert.Equal(t, 16, opts.MinWindowLen)
	assert.InDelta(t, 0.04, opts.SoCTolerance, 1e-9)
	assert.True(t, opts.RepairBaseline)
}

func TestMergeSystem(t *testing.T) {
	base := SystemConfig{Name: "a", CapacityKWh: 100, PowerKW: 50, AvgPriceCtKWh: 18, DailyCycles: 1}
	out := MergeSystem(base, SystemConfig{PowerKW: 75, DailyCycles: 2})
	assert.Equal(t, "a", out.Name)
	assert.InDelta(t, 100.0, out.CapacityKWh, 1e-9)
	assert.InDelta(t, 75.0, out.PowerKW, 1e-9)
	assert.Equal(t, 2, out.DailyCycles)
}
