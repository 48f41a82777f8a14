package models

import "github.com/timeisseler/da-bess-v2/internal/model"

// OptimizeRequest represents the request body for running an optimization
type OptimizeRequest struct {
	System   SystemConfig    `json:"system" binding:"required"`
	Pipeline PipelineConfig  `json:"pipeline,omitempty"`
	Inputs   SeriesInputs    `json:"inputs" binding:"required"`
	Options  OptimizeOptions `json:"options,omitempty"`
}

// SystemConfig defines the battery system parameters
type SystemConfig struct {
	Name          string  `json:"name,omitempty"`
	CapacityKWh   float64 `json:"capacity_kwh"`
	PowerKW       float64 `json:"power_kw"`
	AvgPriceCtKWh float64 `json:"avg_price_ct_kwh"`
	DailyCycles   int     `json:"daily_cycles"`
}

// PipelineConfig tunes window detection and baseline handling
type PipelineConfig struct {
	Detector          string  `json:"detector,omitempty"` // "constant-soc" or "flexible-arbitrage"
	MinWindowLen      int     `json:"min_window_len,omitempty"`
	SoCTolerance      float64 `json:"soc_tolerance,omitempty"`
	ActivityThreshold float64 `json:"activity_threshold,omitempty"`
	MaxWindowHours    float64 `json:"max_window_hours,omitempty"`
	RepairBaseline    bool    `json:"repair_baseline,omitempty"`
}

// SeriesInputs carries the four aligned year series inline.
// PV and Baseline may be omitted; they default to all-zero series.
type SeriesInputs struct {
	Load     []model.Point `json:"load" binding:"required"`
	PV       []model.Point `json:"pv,omitempty"`
	Prices   []model.Point `json:"prices" binding:"required"`
	Baseline []model.Point `json:"baseline,omitempty"`
}

// OptimizeOptions contains optional response shaping parameters
type OptimizeOptions struct {
	IncludeSchedule        bool `json:"include_schedule,omitempty"`        // default: false
	IncludeFlexband        bool `json:"include_flexband,omitempty"`        // default: false
	IncludeImplementations bool `json:"include_implementations,omitempty"` // default: false
}

// CostsRequest represents a request to price a net load series
type CostsRequest struct {
	NetLoad      []model.Point `json:"net_load" binding:"required"`
	Prices       []model.Point `json:"prices" binding:"required"`
	IncludeCosts bool          `json:"include_costs,omitempty"` // default: false
}
