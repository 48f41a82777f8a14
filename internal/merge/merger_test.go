package merge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

func testParams() model.SystemParams {
	return model.SystemParams{CapacityKWh: 100, PowerKW: 100, AvgPriceCtKWh: 18, DailyCycles: 1}
}

func zeroBaseline(n int) model.Schedule {
	s := make(model.Schedule, n)
	for i := range s {
		s[i] = model.SchedulePoint{Index: i + 1, Timestamp: fmt.Sprintf("t%04d", i)}
	}
	return s
}

func openBand(n int) model.Flexband {
	band := make(model.Flexband, n)
	for i := range band {
		band[i] = model.FlexbandPoint{
			Index: i + 1, Timestamp: fmt.Sprintf("t%04d", i),
			ChargePotential: 95, DischargePotential: -95,
			SoC: 30,
		}
	}
	return band
}

// swingStrategy charges chargeKW at start and discharges it again at start+1.
func swingStrategy(id, start int, chargeKW, profit float64) model.Strategy {
	return model.Strategy{
		ID:         id,
		WindowID:   id,
		Type:       model.StrategySimple,
		StartIndex: start,
		EndIndex:   start + 1,
		BaseSoC:    30,
		Steps: []model.StrategyStep{
			{Index: start, ActionKW: chargeKW, PriceCtKWh: 10},
			{Index: start + 1, ActionKW: -chargeKW, PriceCtKWh: 30},
		},
		TotalChargeKWh:    chargeKW * model.IntervalHours,
		TotalDischargeKWh: chargeKW * model.IntervalHours,
		ProfitEuro:        profit,
	}
}

func TestMergeAcceptsNonOverlapping(t *testing.T) {
	params := testParams()
	n := 32
	baseline := zeroBaseline(n)
	band := openBand(n)

	ranked := []model.Strategy{
		swingStrategy(1, 1, 40, 5),
		swingStrategy(2, 11, 40, 4),
	}

	res, err := Merge(ranked, baseline, band, params)
	require.NoError(t, err)

	require.Len(t, res.Implemented, 2)
	assert.Equal(t, 1, res.Implemented[0].Order)
	assert.Equal(t, 2, res.Implemented[1].Order)

	require.Len(t, res.Decisions, 2)
	for _, d := range res.Decisions {
		assert.Equal(t, StatusAccepted, d.Status)
	}

	// Actions landed in the merged schedule.
	assert.InDelta(t, 40.0, res.Schedule[0].Value, 1e-9)
	assert.InDelta(t, -40.0, res.Schedule[1].Value, 1e-9)
	assert.InDelta(t, 40.0, res.Schedule[10].Value, 1e-9)

	assert.Equal(t, 2, res.KPIs.ImplementedCount)
	assert.InDelta(t, 9.0, res.KPIs.TotalProfitEuro, 1e-9)
	assert.Equal(t, 2, res.KPIs.StrategyTypes[string(model.StrategySimple)])
}

func TestMergeSkipsTimeOverlap(t *testing.T) {
	params := testParams()
	baseline := zeroBaseline(32)
	band := openBand(32)

	ranked := []model.Strategy{
		swingStrategy(1, 5, 40, 5),
		swingStrategy(2, 6, 40, 4), // shares interval 6
		swingStrategy(3, 20, 40, 3),
	}

	res, err := Merge(ranked, baseline, band, params)
	require.NoError(t, err)

	require.Len(t, res.Decisions, 3)
	assert.Equal(t, StatusAccepted, res.Decisions[0].Status)
	assert.Equal(t, StatusTimeOverlapSkipped, res.Decisions[1].Status)
	assert.Equal(t, StatusAccepted, res.Decisions[2].Status)
	assert.Equal(t, 1, res.KPIs.SkipReasons[string(StatusTimeOverlapSkipped)])
}

func TestMergeStopsAtCycleBudget(t *testing.T) {
	params := testParams()
	baseline := zeroBaseline(32)
	band := openBand(32)

	over := swingStrategy(2, 11, 40, 4)
	over.TotalChargeKWh = 1e9 // cannot fit any budget

	ranked := []model.Strategy{
		swingStrategy(1, 1, 40, 5),
		over,
		swingStrategy(3, 21, 40, 3), // never reached: budget stop is terminal
	}

	res, err := Merge(ranked, baseline, band, params)
	require.NoError(t, err)

	require.Len(t, res.Decisions, 2)
	assert.Equal(t, StatusAccepted, res.Decisions[0].Status)
	assert.Equal(t, StatusCycleLimitStopped, res.Decisions[1].Status)
	assert.Contains(t, res.Decisions[1].Detail, "charge budget exhausted")
	assert.Len(t, res.Implemented, 1)

	assert.LessOrEqual(t, res.KPIs.TotalChargeKWh, res.KPIs.ChargeBudgetKWh)
}

func TestMergeSkipsSoCViolation(t *testing.T) {
	params := testParams()
	baseline := zeroBaseline(32)
	band := openBand(32)

	// Two 95 kW discharge intervals from 30 kWh head below the floor.
	bad := model.Strategy{
		ID: 1, WindowID: 1, Type: model.StrategyAggressive,
		StartIndex: 1, EndIndex: 2, BaseSoC: 30,
		Steps: []model.StrategyStep{
			{Index: 1, ActionKW: -95},
			{Index: 2, ActionKW: -95},
		},
		TotalDischargeKWh: 47.5,
		ProfitEuro:        10,
	}

	res, err := Merge([]model.Strategy{bad}, baseline, band, params)
	require.NoError(t, err)

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, StatusSoCInvalidSkipped, res.Decisions[0].Status)
	assert.Contains(t, res.Decisions[0].Detail, "combined SoC range")
	assert.Empty(t, res.Implemented)

	// The running schedule is untouched by a rejected strategy.
	for _, p := range res.Schedule {
		assert.Zero(t, p.Value)
	}
}

func TestMergeSkipsFlexbandViolation(t *testing.T) {
	params := testParams()
	baseline := zeroBaseline(32)
	band := openBand(32)
	band[0].ChargePotential = 20

	s := swingStrategy(1, 1, 40, 5) // 40 kW into a 20 kW envelope

	res, err := Merge([]model.Strategy{s}, baseline, band, params)
	require.NoError(t, err)

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, StatusFlexbandInvalidSkipped, res.Decisions[0].Status)
	assert.Empty(t, res.Implemented)
}

func TestMergeAnnotatesSoC(t *testing.T) {
	params := testParams()
	baseline := zeroBaseline(8)
	band := openBand(8)

	res, err := Merge([]model.Strategy{swingStrategy(1, 1, 40, 5)}, baseline, band, params)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, res.Schedule[0].SoC, 1e-9)
	assert.InDelta(t, 40.0, res.Schedule[1].SoC, 1e-9)
	assert.InDelta(t, 30.0, res.Schedule[2].SoC, 1e-9)
	assert.InDelta(t, 40.0, res.KPIs.MaxSoCKWh, 1e-9)
	assert.InDelta(t, 30.0, res.KPIs.MinSoCKWh, 1e-9)
}

func TestMergeImplementationLog(t *testing.T) {
	params := testParams()
	baseline := zeroBaseline(8)
	baseline[0].Value = 5 // pre-existing setpoint
	band := openBand(8)

	res, err := Merge([]model.Strategy{swingStrategy(1, 1, 40, 5)}, baseline, band, params)
	require.NoError(t, err)
	require.Len(t, res.Implemented, 1)

	impl := res.Implemented[0]
	require.Len(t, impl.Steps, 2)

	first := impl.Steps[0]
	assert.Equal(t, model.ActionCharging, first.ActionType)
	assert.InDelta(t, 5.0, first.OriginalValueKW, 1e-9)
	assert.InDelta(t, 40.0, first.StrategyActionKW, 1e-9)
	assert.InDelta(t, 45.0, first.ResultValueKW, 1e-9)
	assert.InDelta(t, 10.0, first.EnergyKWh, 1e-9)
	// 10 ct/kWh * 10 kWh = 100 ct = 1 EUR cost.
	assert.InDelta(t, -1.0, first.CostEuro, 1e-9)

	second := impl.Steps[1]
	assert.Equal(t, model.ActionDischarging, second.ActionType)
	assert.InDelta(t, 3.0, second.CostEuro, 1e-9)
}

func TestMergeValidatesInputs(t *testing.T) {
	params := testParams()

	_, err := Merge(nil, model.Schedule{}, model.Flexband{}, params)
	assert.Error(t, err)

	_, err = Merge(nil, zeroBaseline(4), openBand(3), params)
	assert.Error(t, err)

	_, err = Merge([]model.Strategy{swingStrategy(1, 40, 10, 1)}, zeroBaseline(4), openBand(4), params)
	assert.Error(t, err, "strategy outside schedule range")
}

func TestMergeEmptyRankedList(t *testing.T) {
	params := testParams()
	res, err := Merge(nil, zeroBaseline(8), openBand(8), params)
	require.NoError(t, err)
	assert.Empty(t, res.Implemented)
	assert.Empty(t, res.Decisions)
	assert.NotNil(t, res.KPIs.SkipReasons)
	assert.InDelta(t, 36500.0, res.KPIs.ChargeBudgetKWh, 1e-9)
}
