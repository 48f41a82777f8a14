package series

import "github.com/timeisseler/da-bess-v2/internal/model"

// CostSummary is the day-ahead cost accounting for one net-load series.
type CostSummary struct {
	Costs          model.Series `json:"costs"`
	TotalCostEuro  float64      `json:"total_cost_euro"`
	TotalEnergyKWh float64      `json:"total_energy_kWh"`
	AvgCostPerKWh  float64      `json:"avg_cost_per_kWh"`
}

// DayAheadCosts prices every interval of a net-load series against the
// day-ahead price series: cost = price · load/4, converted from ct to €.
// The two series must be aligned.
func DayAheadCosts(netLoad, prices model.Series) (CostSummary, error) {
	if len(netLoad) != len(prices) {
		return CostSummary{}, lengthMismatch(map[string]int{
			"net_load": len(netLoad), "prices": len(prices),
		})
	}
	costs := make(model.Series, len(netLoad))
	totalCost := 0.0
	totalKWh := 0.0
	for i, lg := range netLoad {
		pr := prices[i]
		if lg.Index != pr.Index || lg.Timestamp != pr.Timestamp {
			return CostSummary{}, spineMismatch("prices", i, lg, pr)
		}
		cost := pr.Value * lg.Value * model.IntervalHours / 100
		costs[i] = model.Point{
			Index:     lg.Index,
			Timestamp: lg.Timestamp,
			Value:     model.Round2(cost),
		}
		totalCost += cost
		totalKWh += lg.Value * model.IntervalHours
	}
	avg := 0.0
	if totalKWh > 0 {
		avg = totalCost / totalKWh
	}
	return CostSummary{
		Costs:          costs,
		TotalCostEuro:  model.Round2(totalCost),
		TotalEnergyKWh: model.Round2(totalKWh),
		AvgCostPerKWh:  model.Round4(avg),
	}, nil
}
