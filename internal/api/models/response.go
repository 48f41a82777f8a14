package models

import (
	"github.com/timeisseler/da-bess-v2/internal/merge"
	"github.com/timeisseler/da-bess-v2/internal/model"
	"github.com/timeisseler/da-bess-v2/internal/pipeline"
	"github.com/timeisseler/da-bess-v2/internal/series"
)

// OptimizeResponse represents the response from an optimization run
type OptimizeResponse struct {
	Status          string               `json:"status"`
	Summary         pipeline.Summary     `json:"summary"`
	MergeKPIs       merge.KPIs           `json:"merge_kpis"`
	Decisions       []merge.Decision     `json:"decisions"`
	Diagnostics     DiagnosticsView      `json:"diagnostics"`
	Schedule        model.Schedule       `json:"schedule,omitempty"`
	Flexband        model.Flexband       `json:"flexband,omitempty"`
	Implementations []merge.Implementation `json:"implementations,omitempty"`
}

// DiagnosticsView summarizes window and strategy counts per run
type DiagnosticsView struct {
	WindowsTotal       int `json:"windows_total"`
	WindowsTooShort    int `json:"windows_too_short"`
	WindowsNoPotential int `json:"windows_no_potential"`
	Discarded          int `json:"strategies_discarded"`
	Generated          int `json:"strategies_generated"`
}

// CostsResponse represents the response from pricing a net load series
type CostsResponse struct {
	TotalCostEuro  float64      `json:"total_cost_euro"`
	TotalEnergyKWh float64      `json:"total_energy_kWh"`
	AvgCostPerKWh  float64      `json:"avg_cost_per_kWh"`
	Costs          model.Series `json:"costs,omitempty"`
}

// NewCostsResponse copies a cost summary into the wire shape
func NewCostsResponse(s series.CostSummary, includeCosts bool) CostsResponse {
	resp := CostsResponse{
		TotalCostEuro:  s.TotalCostEuro,
		TotalEnergyKWh: s.TotalEnergyKWh,
		AvgCostPerKWh:  s.AvgCostPerKWh,
	}
	if includeCosts {
		resp.Costs = s.Costs
	}
	return resp
}

// ErrorResponse is the error envelope for all endpoints
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
