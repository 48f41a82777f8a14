// Package strategy generates heuristic charge/discharge candidates for
// detected windows and scores their day-ahead profit.
package strategy

import (
	"fmt"
	"sort"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

// Slot counts and utilization factors per heuristic.
const (
	simpleMaxSlots     = 8
	simpleUtilization  = 0.80
	aggressiveMaxSlots = 10
	aggressiveUtil     = 0.95
	dtcMaxSlots        = 4
	dtcUtilization     = 0.70

	minWindowIntervals      = 4 // 1 hour
	aggressiveMinIntervals  = 8 // 2 hours
)

// Diagnostics counts what happened to each window during generation. Per-window
// infeasibility never aborts a run; it only shows up here.
type Diagnostics struct {
	WindowsTotal int `json:"windows_total"`
	TooShort     int `json:"too_short"`
	NoPotential  int `json:"no_potential"`
	Discarded    int `json:"discarded"`
	Generated    int `json:"generated"`
}

// Generator produces up to three candidates per window, each obeying the
// per-step flexibility band and closing the window's SoC balance to zero net
// effect.
type Generator struct {
	Params model.SystemParams
}

// windowData is one window's slice of the aligned run inputs, all in local
// 0-based positions.
type windowData struct {
	band     model.Flexband
	prices   model.Series
	schedule model.Schedule
	baseSoC  float64
	minSoC   float64
	maxSoC   float64
}

// Generate walks the windows in order and emits candidates with globally
// unique ascending IDs. The returned slice is in generation order; use
// FilterAndRank before merging.
func (g *Generator) Generate(windows []model.Window, band model.Flexband, prices model.Series, schedule model.Schedule) ([]model.Strategy, Diagnostics, error) {
	if len(band) == 0 || len(band) != len(prices) || len(band) != len(schedule) {
		return nil, Diagnostics{}, fmt.Errorf("strategy: band/prices/schedule rows differ (%d/%d/%d)",
			len(band), len(prices), len(schedule))
	}

	diag := Diagnostics{WindowsTotal: len(windows)}
	var out []model.Strategy
	nextID := 1
	base := band[0].Index

	for _, w := range windows {
		start := w.Start - base
		end := w.End - base
		if start < 0 || end >= len(band) || start > end {
			return nil, diag, fmt.Errorf("strategy: window %d range [%d,%d] outside run of %d rows", w.ID, w.Start, w.End, len(band))
		}
		n := end - start + 1
		if n < minWindowIntervals {
			diag.TooShort++
			continue
		}

		wd := windowData{
			band:     band[start : end+1],
			prices:   prices[start : end+1],
			schedule: schedule[start : end+1],
			baseSoC:  w.BaseSoC,
			minSoC:   g.Params.MinSoCKWh(),
			maxSoC:   g.Params.MaxSoCKWh(),
		}
		if wd.band.MaxChargePotential() <= 0 && wd.band.MinDischargePotential() >= 0 {
			diag.NoPotential++
			continue
		}

		cheapFirst, priceyFirst := rankByPrice(wd.prices)

		candidates := []struct {
			typ   model.StrategyType
			steps []model.StrategyStep
		}{
			{model.StrategySimple, g.simple(wd, cheapFirst, priceyFirst)},
			{model.StrategyAggressive, g.aggressive(wd, cheapFirst, priceyFirst)},
			{model.StrategyDischargeThenCharge, g.dischargeThenCharge(wd)},
		}

		for _, c := range candidates {
			if c.steps == nil {
				diag.Discarded++
				continue
			}
			out = append(out, g.assemble(nextID, w, c.typ, c.steps))
			nextID++
			diag.Generated++
		}
	}
	return out, diag, nil
}

// simple charges at the cheapest and discharges at the priciest intervals,
// using 80% of the available potential at each slot.
func (g *Generator) simple(wd windowData, cheapFirst, priceyFirst []int) []model.StrategyStep {
	n := len(wd.band)
	slots := minInt(n/2, simpleMaxSlots)
	steps := g.slotSteps(wd, indexSet(cheapFirst[:slots]), indexSet(priceyFirst[:slots]), simpleUtilization)
	return g.balance(wd, steps, len(steps)-maxInt(1, len(steps)/4))
}

// aggressive uses more slots and 95% utilization; it needs at least two hours
// of window to pay for the extra cycling.
func (g *Generator) aggressive(wd windowData, cheapFirst, priceyFirst []int) []model.StrategyStep {
	n := len(wd.band)
	if n < aggressiveMinIntervals {
		return nil
	}
	slots := minInt(n/2, aggressiveMaxSlots)
	steps := g.slotSteps(wd, indexSet(cheapFirst[:slots]), indexSet(priceyFirst[:slots]), aggressiveUtil)
	return g.balance(wd, steps, len(steps)-maxInt(1, len(steps)/4))
}

// slotSteps walks the window once, applying the utilization factor of the
// available potential at each slot and forcing an action to zero when it
// would push the combined SoC path outside the envelope.
func (g *Generator) slotSteps(wd windowData, chargeSlots, dischargeSlots map[int]bool, utilization float64) []model.StrategyStep {
	n := len(wd.band)
	steps := make([]model.StrategyStep, 0, n)
	cur := wd.baseSoC

	for i := 0; i < n; i++ {
		action := 0.0
		if chargeSlots[i] {
			headroom := minFloat(wd.band[i].ChargePotential, (wd.maxSoC-cur)*model.IntervalsPerHour)
			if headroom > 0 {
				action = headroom * utilization
			}
		} else if dischargeSlots[i] {
			headroom := minFloat(-wd.band[i].DischargePotential, (cur-wd.minSoC)*model.IntervalsPerHour)
			if headroom > 0 {
				action = -headroom * utilization
			}
		}

		sched := wd.schedule[i].Value
		next := cur + (sched+action)*model.IntervalHours
		if next < wd.minSoC || next > wd.maxSoC {
			action = 0
			next = cur + sched*model.IntervalHours
		}

		steps = append(steps, model.StrategyStep{
			Index:      wd.band[i].Index,
			Timestamp:  wd.band[i].Timestamp,
			ActionKW:   model.Round2(action),
			SoCAfter:   model.Round2(next),
			PriceCtKWh: model.Round4(wd.prices[i].Value),
		})
		cur = next
	}
	return steps
}

// dischargeThenCharge discharges during the priciest intervals of the first
// half and buys the energy back during the cheapest intervals of the second
// half, never charging more than was discharged.
func (g *Generator) dischargeThenCharge(wd windowData) []model.StrategyStep {
	n := len(wd.band)
	mid := n / 2

	cheapFirst, priceyFirst := rankByPrice(wd.prices)
	dischargeSlots := map[int]bool{}
	for _, i := range priceyFirst {
		if i < mid {
			dischargeSlots[i] = true
			if len(dischargeSlots) == minInt(mid/2, dtcMaxSlots) {
				break
			}
		}
	}
	chargeSlots := map[int]bool{}
	for _, i := range cheapFirst {
		if i >= mid {
			chargeSlots[i] = true
			if len(chargeSlots) == minInt((n-mid)/2, dtcMaxSlots) {
				break
			}
		}
	}

	steps := make([]model.StrategyStep, 0, n)
	cur := wd.baseSoC
	discharged := 0.0
	charged := 0.0

	for i := 0; i < n; i++ {
		action := 0.0
		if i < mid && dischargeSlots[i] {
			headroom := minFloat(-wd.band[i].DischargePotential, (cur-wd.minSoC)*model.IntervalsPerHour)
			if headroom > 0 {
				action = -headroom * dtcUtilization
				discharged += -action
			}
		} else if i >= mid && chargeSlots[i] {
			unpaid := discharged - charged
			headroom := minFloat(wd.band[i].ChargePotential, (wd.maxSoC-cur)*model.IntervalsPerHour)
			headroom = minFloat(headroom, unpaid)
			if headroom > 0 {
				action = headroom * dtcUtilization
				charged += action
			}
		}

		sched := wd.schedule[i].Value
		next := cur + (sched+action)*model.IntervalHours
		if next < wd.minSoC || next > wd.maxSoC {
			action = 0
			next = cur + sched*model.IntervalHours
		}

		steps = append(steps, model.StrategyStep{
			Index:      wd.band[i].Index,
			Timestamp:  wd.band[i].Timestamp,
			ActionKW:   model.Round2(action),
			SoCAfter:   model.Round2(next),
			PriceCtKWh: model.Round4(wd.prices[i].Value),
		})
		cur = next
	}

	return g.balanceSecondHalf(wd, steps, mid)
}

func (g *Generator) assemble(id int, w model.Window, typ model.StrategyType, steps []model.StrategyStep) model.Strategy {
	s := model.Strategy{
		ID:          id,
		WindowID:    w.ID,
		Type:        typ,
		StartIndex:  w.Start,
		EndIndex:    w.End,
		LengthHours: float64(len(steps)) * model.IntervalHours,
		BaseSoC:     w.BaseSoC,
		Steps:       steps,
	}
	s.MaxSoCReached = w.BaseSoC
	s.MinSoCReached = w.BaseSoC
	for _, st := range steps {
		if st.SoCAfter > s.MaxSoCReached {
			s.MaxSoCReached = st.SoCAfter
		}
		if st.SoCAfter < s.MinSoCReached {
			s.MinSoCReached = st.SoCAfter
		}
		if st.ActionKW > 0 {
			s.TotalChargeKWh += st.ActionKW * model.IntervalHours
		} else if st.ActionKW < 0 {
			s.TotalDischargeKWh += -st.ActionKW * model.IntervalHours
		}
	}
	s.TotalChargeKWh = model.Round2(s.TotalChargeKWh)
	s.TotalDischargeKWh = model.Round2(s.TotalDischargeKWh)
	s.ProfitEuro = model.Round2(Score(steps))
	return s
}

// FilterAndRank drops non-positive-profit candidates and orders the rest by
// profit descending. Ties keep generation order.
func FilterAndRank(strategies []model.Strategy) []model.Strategy {
	out := make([]model.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s.ProfitEuro > 0 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProfitEuro > out[j].ProfitEuro
	})
	return out
}

// rankByPrice returns the window's 0-based positions ordered by price
// ascending and descending. Ties keep positional order so runs are
// deterministic.
func rankByPrice(prices model.Series) (cheapFirst, priceyFirst []int) {
	n := len(prices)
	cheapFirst = make([]int, n)
	for i := range cheapFirst {
		cheapFirst[i] = i
	}
	priceyFirst = make([]int, n)
	copy(priceyFirst, cheapFirst)

	sort.SliceStable(cheapFirst, func(a, b int) bool {
		return prices[cheapFirst[a]].Value < prices[cheapFirst[b]].Value
	})
	sort.SliceStable(priceyFirst, func(a, b int) bool {
		return prices[priceyFirst[a]].Value > prices[priceyFirst[b]].Value
	})
	return cheapFirst, priceyFirst
}

func indexSet(idx []int) map[int]bool {
	set := make(map[int]bool, len(idx))
	for _, i := range idx {
		set[i] = true
	}
	return set
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
