package flexband

import (
	"fmt"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

// BaselineReport flags a user-supplied baseline schedule whose unclamped SoC
// trajectory already breaches the operational envelope before any strategy is
// applied. This is reported distinctly from strategy-induced violations.
type BaselineReport struct {
	Violated   bool    `json:"violated"`
	Violations int     `json:"violations"`
	FirstIndex int     `json:"first_index,omitempty"`
	MinSoCKWh  float64 `json:"min_soc_kWh"`
	MaxSoCKWh  float64 `json:"max_soc_kWh"`
}

func (r BaselineReport) Error() string {
	return fmt.Sprintf("baseline schedule violates SoC bounds at %d intervals (first at index %d, SoC range %.2f-%.2f kWh)",
		r.Violations, r.FirstIndex, r.MinSoCKWh, r.MaxSoCKWh)
}

// CheckBaseline runs the unclamped SoC trajectory of the baseline schedule
// against [MinSoC, MaxSoC].
func CheckBaseline(schedule model.Schedule, params model.SystemParams) BaselineReport {
	socs := SoCTrajectory(schedule, params, false)
	report := BaselineReport{}
	if len(socs) == 0 {
		return report
	}
	minSoC := params.MinSoCKWh()
	maxSoC := params.MaxSoCKWh()
	report.MinSoCKWh = socs[0]
	report.MaxSoCKWh = socs[0]
	for i, soc := range socs {
		if soc < report.MinSoCKWh {
			report.MinSoCKWh = soc
		}
		if soc > report.MaxSoCKWh {
			report.MaxSoCKWh = soc
		}
		if soc < minSoC || soc > maxSoC {
			report.Violations++
			if report.FirstIndex == 0 {
				report.FirstIndex = schedule[i].Index
			}
		}
	}
	report.Violated = report.Violations > 0
	report.MinSoCKWh = model.Round2(report.MinSoCKWh)
	report.MaxSoCKWh = model.Round2(report.MaxSoCKWh)
	return report
}

// RepairBaseline clips baseline actions so the resulting trajectory respects
// the SoC envelope, walking the year once and shrinking any action that would
// step outside the bounds. Returns the repaired schedule and the number of
// modified intervals.
func RepairBaseline(schedule model.Schedule, params model.SystemParams) (model.Schedule, int) {
	fixed := schedule.Clone()
	minSoC := params.MinSoCKWh()
	maxSoC := params.MaxSoCKWh()
	soc := params.InitialSoCKWh()
	modified := 0

	for i := range fixed {
		next := soc + fixed[i].Value*model.IntervalHours
		if next < minSoC {
			allowed := (minSoC - soc) * model.IntervalsPerHour
			if fixed[i].Value < allowed {
				fixed[i].Value = model.Round2(allowed)
				modified++
			}
		} else if next > maxSoC {
			allowed := (maxSoC - soc) * model.IntervalsPerHour
			if fixed[i].Value > allowed {
				fixed[i].Value = model.Round2(allowed)
				modified++
			}
		}
		soc += fixed[i].Value * model.IntervalHours
		if soc < minSoC {
			soc = minSoC
		}
		if soc > maxSoC {
			soc = maxSoC
		}
	}
	return fixed, modified
}
