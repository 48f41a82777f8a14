package strategy

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

func testParams() model.SystemParams {
	return model.SystemParams{CapacityKWh: 100, PowerKW: 100, AvgPriceCtKWh: 18, DailyCycles: 2}
}

// testRun builds an n-interval run with generous flexibility, zero baseline
// schedule, cheap prices in the first half and expensive in the second.
func testRun(n int) (model.Flexband, model.Series, model.Schedule) {
	band := make(model.Flexband, n)
	prices := make(model.Series, n)
	sched := make(model.Schedule, n)
	for i := 0; i < n; i++ {
		ts := fmt.Sprintf("t%04d", i)
		band[i] = model.FlexbandPoint{
			Index: i + 1, Timestamp: ts,
			ChargePotential: 50, DischargePotential: -50,
			SoC: 30,
		}
		price := 10.0
		if i >= n/2 {
			price = 30.0
		}
		prices[i] = model.Point{Index: i + 1, Timestamp: ts, Value: price}
		sched[i] = model.SchedulePoint{Index: i + 1, Timestamp: ts}
	}
	return band, prices, sched
}

func testWindow(id, start, end int) model.Window {
	return model.Window{ID: id, Start: start, End: end, BaseSoC: 30, Length: end - start + 1}
}

func TestGenerateProducesFeasibleCandidates(t *testing.T) {
	g := Generator{Params: testParams()}
	band, prices, sched := testRun(16)
	windows := []model.Window{testWindow(1, 1, 16)}

	out, diag, err := g.Generate(windows, band, prices, sched)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, 1, diag.WindowsTotal)
	assert.Equal(t, len(out), diag.Generated)

	params := testParams()
	for _, s := range out {
		t.Run(string(s.Type), func(t *testing.T) {
			require.Len(t, s.Steps, 16)

			net := 0.0
			for i, st := range s.Steps {
				assert.LessOrEqualf(t, st.ActionKW, band[i].ChargePotential, "step %d exceeds charge potential", i)
				assert.GreaterOrEqualf(t, st.ActionKW, band[i].DischargePotential, "step %d exceeds discharge potential", i)
				assert.LessOrEqualf(t, st.SoCAfter, params.MaxSoCKWh()+0.01, "step %d SoC above envelope", i)
				assert.GreaterOrEqualf(t, st.SoCAfter, params.MinSoCKWh()-0.01, "step %d SoC below envelope", i)
				net += st.ActionKW * model.IntervalHours
			}
			assert.LessOrEqual(t, math.Abs(net), model.SoCToleranceKWh,
				"window SoC balance must close to zero")

			assert.Equal(t, 1, s.WindowID)
			assert.Equal(t, 1, s.StartIndex)
			assert.Equal(t, 16, s.EndIndex)
			assert.InDelta(t, 4.0, s.LengthHours, 1e-9)
			assert.GreaterOrEqual(t, s.MaxSoCReached, s.MinSoCReached)
		})
	}

	// Cheap-charge/expensive-discharge spread must be profitable for at
	// least one heuristic.
	profitable := false
	for _, s := range out {
		if s.ProfitEuro > 0 {
			profitable = true
		}
	}
	assert.True(t, profitable)
}

func TestGenerateFullDayAlternatingPrices(t *testing.T) {
	// One flat day, hourly price blocks alternating cheap and expensive.
	params := model.SystemParams{CapacityKWh: 1000, PowerKW: 1000, AvgPriceCtKWh: 12, DailyCycles: 2}
	g := Generator{Params: params}

	n := 96
	band := make(model.Flexband, n)
	prices := make(model.Series, n)
	sched := make(model.Schedule, n)
	for i := 0; i < n; i++ {
		ts := fmt.Sprintf("t%04d", i)
		band[i] = model.FlexbandPoint{
			Index: i + 1, Timestamp: ts,
			ChargePotential: 400, DischargePotential: -400,
			SoC: 300,
		}
		price := 5.0
		if (i/4)%2 == 1 {
			price = 20.0
		}
		prices[i] = model.Point{Index: i + 1, Timestamp: ts, Value: price}
		sched[i] = model.SchedulePoint{Index: i + 1, Timestamp: ts}
	}
	windows := []model.Window{{ID: 1, Start: 1, End: 96, BaseSoC: 300, Length: 96}}

	out, _, err := g.Generate(windows, band, prices, sched)
	require.NoError(t, err)

	var simple *model.Strategy
	for i := range out {
		if out[i].Type == model.StrategySimple {
			simple = &out[i]
		}
	}
	require.NotNil(t, simple, "a Simple strategy must be generated")
	assert.Greater(t, simple.ProfitEuro, 0.0)

	for i, st := range simple.Steps {
		cheap := (i/4)%2 == 0
		if st.ActionKW > 0 {
			assert.Truef(t, cheap, "charging must land in cheap blocks (step %d)", i)
		}
		if st.ActionKW < 0 && i < len(simple.Steps)-len(simple.Steps)/4 {
			// Outside the balance-correction tail, discharging targets
			// expensive blocks only.
			assert.Falsef(t, cheap, "discharging must land in expensive blocks (step %d)", i)
		}
	}
}

func TestGenerateUniqueAscendingIDs(t *testing.T) {
	g := Generator{Params: testParams()}
	band, prices, sched := testRun(32)
	windows := []model.Window{testWindow(1, 1, 16), testWindow(2, 17, 32)}

	out, _, err := g.Generate(windows, band, prices, sched)
	require.NoError(t, err)
	for i, s := range out {
		assert.Equal(t, i+1, s.ID)
	}
}

func TestGenerateSkipsShortWindows(t *testing.T) {
	g := Generator{Params: testParams()}
	band, prices, sched := testRun(16)
	windows := []model.Window{testWindow(1, 1, 3)} // under one hour

	out, diag, err := g.Generate(windows, band, prices, sched)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 1, diag.TooShort)
}

func TestGenerateSkipsWindowsWithoutPotential(t *testing.T) {
	g := Generator{Params: testParams()}
	band, prices, sched := testRun(16)
	for i := range band {
		band[i].ChargePotential = 0
		band[i].DischargePotential = 0
	}
	windows := []model.Window{testWindow(1, 1, 16)}

	out, diag, err := g.Generate(windows, band, prices, sched)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 1, diag.NoPotential)
}

func TestGenerateRejectsOutOfRangeWindow(t *testing.T) {
	g := Generator{Params: testParams()}
	band, prices, sched := testRun(16)
	windows := []model.Window{testWindow(1, 10, 40)}

	_, _, err := g.Generate(windows, band, prices, sched)
	assert.Error(t, err)
}

func TestAggressiveNeedsTwoHours(t *testing.T) {
	g := Generator{Params: testParams()}
	band, prices, sched := testRun(6)
	windows := []model.Window{testWindow(1, 1, 6)}

	out, _, err := g.Generate(windows, band, prices, sched)
	require.NoError(t, err)
	for _, s := range out {
		assert.NotEqual(t, model.StrategyAggressive, s.Type)
	}
}

func TestDischargeThenChargeNeverOverbuys(t *testing.T) {
	g := Generator{Params: testParams()}
	// Expensive first half, cheap second half: the DTC pattern.
	band, prices, sched := testRun(16)
	for i := range prices {
		if i < 8 {
			prices[i].Value = 30
		} else {
			prices[i].Value = 10
		}
	}
	windows := []model.Window{testWindow(1, 1, 16)}

	out, _, err := g.Generate(windows, band, prices, sched)
	require.NoError(t, err)

	for _, s := range out {
		if s.Type != model.StrategyDischargeThenCharge {
			continue
		}
		assert.LessOrEqual(t, s.TotalChargeKWh, s.TotalDischargeKWh+model.SoCToleranceKWh)
		for i, st := range s.Steps {
			if i < 8 {
				assert.LessOrEqualf(t, st.ActionKW, 0.0, "first half must not charge (step %d)", i)
			} else {
				assert.GreaterOrEqualf(t, st.ActionKW, 0.0, "second half must not discharge (step %d)", i)
			}
		}
	}
}

func TestFilterAndRank(t *testing.T) {
	in := []model.Strategy{
		{ID: 1, ProfitEuro: 2.5},
		{ID: 2, ProfitEuro: -1.0},
		{ID: 3, ProfitEuro: 7.0},
		{ID: 4, ProfitEuro: 0},
		{ID: 5, ProfitEuro: 7.0},
	}
	out := FilterAndRank(in)
	require.Len(t, out, 3)
	assert.Equal(t, 3, out[0].ID)
	assert.Equal(t, 5, out[1].ID, "ties keep generation order")
	assert.Equal(t, 1, out[2].ID)
}

func TestRankByPriceDeterministic(t *testing.T) {
	prices := model.Series{
		{Index: 1, Value: 20},
		{Index: 2, Value: 10},
		{Index: 3, Value: 20},
		{Index: 4, Value: 30},
	}
	cheap, pricey := rankByPrice(prices)
	assert.Equal(t, []int{1, 0, 2, 3}, cheap)
	assert.Equal(t, []int{3, 0, 2, 1}, pricey)
}

func TestScore(t *testing.T) {
	steps := []model.StrategyStep{
		{ActionKW: 40, PriceCtKWh: 10},  // buy 10 kWh at 10 ct = 100 ct
		{ActionKW: -40, PriceCtKWh: 30}, // avoid 10 kWh at 30 ct = 300 ct
		{ActionKW: 0, PriceCtKWh: 99},
	}
	assert.InDelta(t, 2.0, Score(steps), 1e-9)
}

func TestBalanceDiscardsImpossibleCorrection(t *testing.T) {
	params := testParams()
	// Band with zero headroom: any correction violates it.
	n := 8
	wd := windowData{
		band:     make(model.Flexband, n),
		prices:   make(model.Series, n),
		schedule: make(model.Schedule, n),
		baseSoC:  30,
		minSoC:   params.MinSoCKWh(),
		maxSoC:   params.MaxSoCKWh(),
	}
	steps := make([]model.StrategyStep, n)
	for i := range steps {
		steps[i] = model.StrategyStep{Index: i + 1, ActionKW: 10, SoCAfter: 30}
	}

	g := Generator{Params: params}
	assert.Nil(t, g.balance(wd, steps, n-2))
	assert.Nil(t, g.balanceSecondHalf(wd, steps, n/2))
}

func TestBalanceKeepsClosedSteps(t *testing.T) {
	g := Generator{Params: testParams()}
	steps := []model.StrategyStep{
		{ActionKW: 40, SoCAfter: 40},
		{ActionKW: -40, SoCAfter: 30},
	}
	out := g.balance(windowData{}, steps, 1)
	assert.Equal(t, steps, out, "already balanced steps pass through untouched")
}
