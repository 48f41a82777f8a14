package merge

import "github.com/timeisseler/da-bess-v2/internal/model"

// KPIs summarize a merge pass. The report is always producible, possibly
// all-zero, even when nothing was accepted.
type KPIs struct {
	ImplementedCount     int            `json:"implemented_count"`
	SkippedCount         int            `json:"skipped_count"`
	SkipReasons          map[string]int `json:"skip_reasons"`
	MaxChargeKW          float64        `json:"max_charge_kW"`
	MaxDischargeKW       float64        `json:"max_discharge_kW"`
	MaxSoCKWh            float64        `json:"max_soc_kWh"`
	MinSoCKWh            float64        `json:"min_soc_kWh"`
	Cycles               float64        `json:"cycles"`
	TotalProfitEuro      float64        `json:"total_profit_euro"`
	TotalChargeKWh       float64        `json:"total_charge_kWh"`
	ChargeBudgetKWh      float64        `json:"charge_budget_kWh"`
	BudgetUtilizationPct float64        `json:"budget_utilization_pct"`
	StrategyTypes        map[string]int `json:"strategy_types"`
}

func buildKPIs(schedule model.Schedule, implemented []Implementation, decisions []Decision, totalCharge, budget float64, params model.SystemParams) KPIs {
	kpis := KPIs{
		ImplementedCount: len(implemented),
		SkipReasons:      map[string]int{},
		StrategyTypes:    map[string]int{},
		TotalChargeKWh:   model.Round2(totalCharge),
		ChargeBudgetKWh:  model.Round2(budget),
	}
	for _, d := range decisions {
		if d.Status == StatusAccepted {
			continue
		}
		kpis.SkippedCount++
		kpis.SkipReasons[string(d.Status)]++
	}
	for _, impl := range implemented {
		kpis.TotalProfitEuro += impl.ProfitEuro
		kpis.StrategyTypes[string(impl.Type)]++
	}
	kpis.TotalProfitEuro = model.Round2(kpis.TotalProfitEuro)
	if budget > 0 {
		kpis.BudgetUtilizationPct = model.Round2(totalCharge / budget * 100)
	}

	if len(schedule) > 0 {
		kpis.MaxChargeKW = schedule.Series().Peak()
		kpis.MaxDischargeKW = schedule.Series().Min()
		kpis.MaxSoCKWh = schedule[0].SoC
		kpis.MinSoCKWh = schedule[0].SoC
		for _, p := range schedule[1:] {
			if p.SoC > kpis.MaxSoCKWh {
				kpis.MaxSoCKWh = p.SoC
			}
			if p.SoC < kpis.MinSoCKWh {
				kpis.MinSoCKWh = p.SoC
			}
		}
		kpis.Cycles = model.Round2(schedule.Cycles(params.CapacityKWh))
	}
	return kpis
}
