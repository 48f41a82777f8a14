// Package pipeline orchestrates one optimization run: align → flexibility
// band → windows → strategies → merge → final accounting. Data flows strictly
// forward; every stage produces new sequences.
package pipeline

import (
	"fmt"

	"github.com/levenlabs/go-llog"

	"github.com/timeisseler/da-bess-v2/internal/analysis"
	"github.com/timeisseler/da-bess-v2/internal/flexband"
	"github.com/timeisseler/da-bess-v2/internal/merge"
	"github.com/timeisseler/da-bess-v2/internal/model"
	"github.com/timeisseler/da-bess-v2/internal/series"
	"github.com/timeisseler/da-bess-v2/internal/strategy"
	"github.com/timeisseler/da-bess-v2/internal/window"
)

// Detector selection for Options.Detector.
const (
	DetectorConstantSoC       = "constant-soc"
	DetectorFlexibleArbitrage = "flexible-arbitrage"
)

// Options tune the detection and repair behavior of a run.
type Options struct {
	Detector          string  // default DetectorConstantSoC
	MinWindowLen      int     // intervals, default window.DefaultMinLen
	SoCTolerance      float64 // flexible detector, fraction of capacity
	ActivityThreshold float64 // flexible detector, fraction of peak activity
	MaxWindowHours    float64 // flexible detector chunking cap
	RepairBaseline    bool    // clip a violating baseline before optimizing
}

// Inputs are the four aligned year series of one run.
type Inputs struct {
	Load     model.Series
	PV       model.Series
	Prices   model.Series
	Baseline model.Schedule
}

// Engine runs the four-stage optimization for one battery asset.
type Engine struct {
	Params  model.SystemParams
	Options Options
}

func New(params model.SystemParams, opts Options) *Engine {
	return &Engine{Params: params, Options: opts}
}

// Run executes the whole pipeline. Alignment and parameter errors fail the
// run before any output exists; per-window or per-strategy infeasibility only
// shows up in the diagnostics, never as an error.
func (e *Engine) Run(in Inputs) (*Result, error) {
	if err := e.Params.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if len(in.Load) == 0 {
		return nil, fmt.Errorf("pipeline: empty load series")
	}

	netLoad, err := series.CombineAfterSchedule(in.Load, in.PV, in.Baseline)
	if err != nil {
		return nil, err
	}
	baselineCosts, err := series.DayAheadCosts(netLoad, in.Prices)
	if err != nil {
		return nil, err
	}

	baselineReport := flexband.CheckBaseline(in.Baseline, e.Params)
	sched := in.Baseline
	repairedActions := 0
	if baselineReport.Violated {
		llog.Warn("baseline schedule violates SoC bounds", llog.KV{
			"violations": baselineReport.Violations,
			"firstIndex": baselineReport.FirstIndex,
			"minSoC":     baselineReport.MinSoCKWh,
			"maxSoC":     baselineReport.MaxSoCKWh,
		})
		if e.Options.RepairBaseline {
			sched, repairedActions = flexband.RepairBaseline(in.Baseline, e.Params)
			if netLoad, err = series.CombineAfterSchedule(in.Load, in.PV, sched); err != nil {
				return nil, err
			}
		}
	}

	band, bandKPIs, err := flexband.Compute(sched, netLoad, e.Params)
	if err != nil {
		return nil, err
	}

	windows := e.detector().Detect(band, sched, e.Params)

	gen := strategy.Generator{Params: e.Params}
	candidates, diag, err := gen.Generate(windows, band, in.Prices, sched)
	if err != nil {
		return nil, err
	}
	ranked := strategy.FilterAndRank(candidates)

	merged, err := merge.Merge(ranked, sched, band, e.Params)
	if err != nil {
		return nil, err
	}

	finalNetLoad, err := series.CombineAfterSchedule(in.Load, in.PV, merged.Schedule)
	if err != nil {
		return nil, err
	}
	finalCosts, err := series.DayAheadCosts(finalNetLoad, in.Prices)
	if err != nil {
		return nil, err
	}

	llog.Info("optimization run complete", llog.KV{
		"windows":     len(windows),
		"candidates":  len(candidates),
		"ranked":      len(ranked),
		"implemented": merged.KPIs.ImplementedCount,
		"skipped":     merged.KPIs.SkippedCount,
		"profit":      merged.KPIs.TotalProfitEuro,
	})

	res := &Result{
		NetLoad:         netLoad,
		BaselineCosts:   baselineCosts,
		Baseline:        baselineReport,
		RepairedActions: repairedActions,
		Flexband:        band,
		FlexbandKPIs:    bandKPIs,
		Windows:         windows,
		Strategies:      ranked,
		Diagnostics:     diag,
		Merge:           merged,
		FinalNetLoad:    finalNetLoad,
		FinalCosts:      finalCosts,
		PricePotential:  analysis.ComputePotential(in.Prices),
	}
	res.Summary = buildSummary(res)
	return res, nil
}

func (e *Engine) detector() window.Detector {
	switch e.Options.Detector {
	case DetectorFlexibleArbitrage:
		return window.FlexibleArbitrage{
			MinLen:            e.Options.MinWindowLen,
			SoCTolerance:      e.Options.SoCTolerance,
			ActivityThreshold: e.Options.ActivityThreshold,
			MaxWindowHours:    e.Options.MaxWindowHours,
		}
	default:
		return window.ConstantSoC{MinLen: e.Options.MinWindowLen}
	}
}
