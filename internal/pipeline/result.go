package pipeline

import (
	"github.com/timeisseler/da-bess-v2/internal/analysis"
	"github.com/timeisseler/da-bess-v2/internal/flexband"
	"github.com/timeisseler/da-bess-v2/internal/merge"
	"github.com/timeisseler/da-bess-v2/internal/model"
	"github.com/timeisseler/da-bess-v2/internal/series"
	"github.com/timeisseler/da-bess-v2/internal/strategy"
)

// Result carries every artifact of one run for downstream consumption. The
// persistence format and display of these are external concerns.
type Result struct {
	NetLoad         model.Series             `json:"net_load"`
	BaselineCosts   series.CostSummary       `json:"baseline_costs"`
	Baseline        flexband.BaselineReport  `json:"baseline_report"`
	RepairedActions int                      `json:"repaired_actions,omitempty"`
	Flexband        model.Flexband           `json:"flexband"`
	FlexbandKPIs    flexband.KPIs            `json:"flexband_kpis"`
	Windows         []model.Window           `json:"windows"`
	Strategies      []model.Strategy         `json:"strategies"`
	Diagnostics     strategy.Diagnostics     `json:"diagnostics"`
	Merge           merge.Result             `json:"merge"`
	FinalNetLoad    model.Series             `json:"final_net_load"`
	FinalCosts      series.CostSummary       `json:"final_costs"`
	PricePotential  analysis.PricePotential  `json:"price_potential"`
	Summary         Summary                  `json:"summary"`
}

// Summary is the KPI object a caller can always rely on, even for a run that
// accepted nothing.
type Summary struct {
	TotalConsumptionKWh float64 `json:"total_consumption_kWh"`
	PeakLoadKW          float64 `json:"peak_load_kW"`

	BaselineCostEuro  float64 `json:"baseline_cost_euro"`
	FinalCostEuro     float64 `json:"final_cost_euro"`
	AvgCostPerKWh     float64 `json:"avg_cost_per_kWh"`
	TotalProfitEuro   float64 `json:"total_profit_euro"`

	MaxSoCKWh float64 `json:"max_soc_kWh"`
	MinSoCKWh float64 `json:"min_soc_kWh"`
	Cycles    float64 `json:"cycles"`

	WindowCount      int            `json:"window_count"`
	StrategyCount    int            `json:"strategy_count"`
	ImplementedCount int            `json:"implemented_count"`
	SkippedCount     int            `json:"skipped_count"`
	SkipReasons      map[string]int `json:"skip_reasons"`

	BaselineViolated bool `json:"baseline_violated"`
}

func buildSummary(r *Result) Summary {
	return Summary{
		TotalConsumptionKWh: model.Round2(r.FinalNetLoad.EnergyKWh()),
		PeakLoadKW:          r.FinalNetLoad.Peak(),
		BaselineCostEuro:    r.BaselineCosts.TotalCostEuro,
		FinalCostEuro:       r.FinalCosts.TotalCostEuro,
		AvgCostPerKWh:       r.FinalCosts.AvgCostPerKWh,
		TotalProfitEuro:     r.Merge.KPIs.TotalProfitEuro,
		MaxSoCKWh:           r.Merge.KPIs.MaxSoCKWh,
		MinSoCKWh:           r.Merge.KPIs.MinSoCKWh,
		Cycles:              r.Merge.KPIs.Cycles,
		WindowCount:         len(r.Windows),
		StrategyCount:       len(r.Strategies),
		ImplementedCount:    r.Merge.KPIs.ImplementedCount,
		SkippedCount:        r.Merge.KPIs.SkippedCount,
		SkipReasons:         r.Merge.KPIs.SkipReasons,
		BaselineViolated:    r.Baseline.Violated,
	}
}
