package strategy

import "github.com/timeisseler/da-bess-v2/internal/model"

// Score computes the Euro profit of a candidate from the day-ahead prices
// embedded in its steps. Charging is a cost; discharging is an avoided-cost
// credit at the same price, treating the battery as arbitrage against the
// day-ahead price rather than a separate sale.
func Score(steps []model.StrategyStep) float64 {
	profit := 0.0
	for _, st := range steps {
		energy := st.ActionKW * model.IntervalHours
		switch {
		case energy > 0:
			profit -= energy * st.PriceCtKWh
		case energy < 0:
			profit += -energy * st.PriceCtKWh
		}
	}
	return profit / 100
}
