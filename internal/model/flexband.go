package model

// FlexbandPoint is one interval of the flexibility band: the envelope of
// additional charge/discharge power available on top of the schedule.
// ChargePotential is >= 0 (kW headroom to charge), DischargePotential is
// <= 0 (kW headroom to discharge). SoC is the trajectory implied by the
// schedule, deliberately unclamped so baseline violations stay visible.
type FlexbandPoint struct {
	Index              int     `json:"index"`
	Timestamp          string  `json:"timestamp"`
	ChargePotential    float64 `json:"charge_potential"`
	DischargePotential float64 `json:"discharge_potential"`
	SoC                float64 `json:"soc"`
}

type Flexband []FlexbandPoint

// MaxChargePotential returns the largest charge headroom in the band.
func (b Flexband) MaxChargePotential() float64 {
	max := 0.0
	for _, p := range b {
		if p.ChargePotential > max {
			max = p.ChargePotential
		}
	}
	return max
}

// MinDischargePotential returns the most negative discharge headroom.
func (b Flexband) MinDischargePotential() float64 {
	min := 0.0
	for _, p := range b {
		if p.DischargePotential < min {
			min = p.DischargePotential
		}
	}
	return min
}
