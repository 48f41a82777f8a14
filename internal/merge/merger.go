// Package merge greedily folds profit-ranked strategies into the running
// schedule, enforcing window exclusivity, the annual cycle budget and the
// full-year SoC envelope under the combined schedule.
package merge

import (
	"fmt"

	"github.com/timeisseler/da-bess-v2/internal/flexband"
	"github.com/timeisseler/da-bess-v2/internal/model"
)

// Status is the terminal state of one proposed strategy.
type Status string

const (
	StatusAccepted               Status = "Accepted"
	StatusTimeOverlapSkipped     Status = "TimeOverlap-Skipped"
	StatusCycleLimitStopped      Status = "CycleLimit-Stopped"
	StatusSoCInvalidSkipped      Status = "SoCInvalid-Skipped"
	StatusFlexbandInvalidSkipped Status = "FlexbandInvalid-Skipped"
)

// Decision records why a strategy ended in its state.
type Decision struct {
	StrategyID int    `json:"strategy_id"`
	Status     Status `json:"status"`
	Detail     string `json:"detail,omitempty"`
}

// Result is the outcome of one merge pass.
type Result struct {
	Schedule    model.Schedule   `json:"schedule"`
	Implemented []Implementation `json:"implemented"`
	Decisions   []Decision       `json:"decisions"`
	KPIs        KPIs             `json:"kpis"`
}

// Merge walks the ranked strategies in order. Overlap and invalid-trajectory
// strategies are skipped; exhausting the cycle budget terminates the loop,
// since nothing cheaper than the current candidate remains. No error is ever
// raised for a single rejected strategy.
func Merge(ranked []model.Strategy, baseline model.Schedule, band model.Flexband, params model.SystemParams) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	if len(baseline) == 0 {
		return Result{}, fmt.Errorf("merge: empty baseline schedule")
	}
	if len(band) != len(baseline) {
		return Result{}, fmt.Errorf("merge: band has %d rows, baseline has %d", len(band), len(baseline))
	}

	base := baseline[0].Index
	minSoC := params.MinSoCKWh()
	maxSoC := params.MaxSoCKWh()

	baselineCycles := baseline.Cycles(params.CapacityKWh)
	budget := (float64(params.DailyCycles)*365 - baselineCycles) * params.CapacityKWh
	if budget < 0 {
		budget = 0
	}

	running := baseline.Clone()
	used := make([]bool, len(baseline))
	var decisions []Decision
	var implemented []Implementation
	totalCharge := 0.0

	for _, s := range ranked {
		start := s.StartIndex - base
		end := s.EndIndex - base
		if start < 0 || end >= len(running) || start > end {
			return Result{}, fmt.Errorf("merge: strategy %d range [%d,%d] outside schedule", s.ID, s.StartIndex, s.EndIndex)
		}

		if overlaps(used, start, end) {
			decisions = append(decisions, Decision{StrategyID: s.ID, Status: StatusTimeOverlapSkipped})
			continue
		}

		if totalCharge+s.TotalChargeKWh > budget {
			decisions = append(decisions, Decision{
				StrategyID: s.ID,
				Status:     StatusCycleLimitStopped,
				Detail: fmt.Sprintf("charge budget exhausted: %.2f + %.2f > %.2f kWh",
					totalCharge, s.TotalChargeKWh, budget),
			})
			break
		}

		trial := running.Clone()
		for _, st := range s.Steps {
			pos := st.Index - base
			trial[pos].Value = model.Round2(trial[pos].Value + st.ActionKW)
		}

		if lo, hi, ok := trajectoryWithin(trial, params, minSoC, maxSoC); !ok {
			decisions = append(decisions, Decision{
				StrategyID: s.ID,
				Status:     StatusSoCInvalidSkipped,
				Detail:     fmt.Sprintf("combined SoC range %.2f-%.2f kWh", lo, hi),
			})
			continue
		}

		if !withinBand(running, band, s, base) {
			decisions = append(decisions, Decision{StrategyID: s.ID, Status: StatusFlexbandInvalidSkipped})
			continue
		}

		impl := buildImplementation(s, running, trial, params, len(implemented)+1)
		running = trial
		markUsed(used, start, end)
		totalCharge += s.TotalChargeKWh
		implemented = append(implemented, impl)
		decisions = append(decisions, Decision{StrategyID: s.ID, Status: StatusAccepted})
	}

	// One last trajectory, clamped this time, annotates the merged schedule.
	socs := flexband.SoCTrajectory(running, params, true)
	for i := range running {
		running[i].SoC = model.Round2(socs[i])
	}

	kpis := buildKPIs(running, implemented, decisions, totalCharge, budget, params)
	return Result{
		Schedule:    running,
		Implemented: implemented,
		Decisions:   decisions,
		KPIs:        kpis,
	}, nil
}

func overlaps(used []bool, start, end int) bool {
	for i := start; i <= end; i++ {
		if used[i] {
			return true
		}
	}
	return false
}

func markUsed(used []bool, start, end int) {
	for i := start; i <= end; i++ {
		used[i] = true
	}
}

// trajectoryWithin simulates the full-year unclamped SoC path of the trial
// schedule and checks it against the envelope with the rounding-slack
// tolerance. Returns the observed range up to the first violation.
func trajectoryWithin(trial model.Schedule, params model.SystemParams, minSoC, maxSoC float64) (lo, hi float64, ok bool) {
	soc := params.InitialSoCKWh()
	lo, hi = soc, soc
	for i := range trial {
		if i > 0 {
			soc += trial[i-1].Value * model.IntervalHours
		}
		if soc < lo {
			lo = soc
		}
		if soc > hi {
			hi = soc
		}
		if soc < minSoC-model.SoCToleranceKWh || soc > maxSoC+model.SoCToleranceKWh {
			return lo, hi, false
		}
	}
	return lo, hi, true
}

// withinBand validates every step against the original pre-merge flexibility
// band: the combined action at that index must stay inside the envelope.
func withinBand(running model.Schedule, band model.Flexband, s model.Strategy, base int) bool {
	for _, st := range s.Steps {
		pos := st.Index - base
		combined := running[pos].Value + st.ActionKW
		if st.ActionKW > 0 && combined > band[pos].ChargePotential {
			return false
		}
		if st.ActionKW < 0 && combined < band[pos].DischargePotential {
			return false
		}
	}
	return true
}
