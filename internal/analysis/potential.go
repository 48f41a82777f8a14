// Package analysis computes battery-independent statistics of a day-ahead
// price year, used as a quick read on how much arbitrage a site can support.
package analysis

import (
	"math"
	"sort"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

// PricePotential summarizes the raw price distribution. SpreadP95P05 is the
// headline number: the spread a battery cycling between the cheap and
// expensive tails could capture.
type PricePotential struct {
	Count int `json:"count"`

	MinPrice  float64 `json:"min_price_ct_kWh"`
	MaxPrice  float64 `json:"max_price_ct_kWh"`
	MeanPrice float64 `json:"mean_price_ct_kWh"`
	P05Price  float64 `json:"p05_price_ct_kWh"`
	P95Price  float64 `json:"p95_price_ct_kWh"`

	SpreadP95P05 float64 `json:"spread_p95_p05_ct_kWh"`
}

// ComputePotential derives the distribution stats of a price series.
func ComputePotential(prices model.Series) PricePotential {
	p := PricePotential{}
	if len(prices) == 0 {
		return p
	}
	p.Count = len(prices)

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(prices))
	for _, it := range prices {
		v := it.Value
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	p.MinPrice = minv
	p.MaxPrice = maxv
	p.MeanPrice = model.Round4(sum / float64(len(vals)))
	p.P05Price = model.Round4(percentileSorted(vals, 0.05))
	p.P95Price = model.Round4(percentileSorted(vals, 0.95))
	p.SpreadP95P05 = model.Round4(p.P95Price - p.P05Price)
	return p
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
