// Package series aligns and combines the parallel input time series of a run.
package series

import (
	"fmt"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

// AlignmentError reports input series whose lengths or (index, timestamp)
// spines do not match. It is fatal for the computation that raised it.
type AlignmentError struct {
	Reason string
}

func (e *AlignmentError) Error() string {
	return "series alignment: " + e.Reason
}

func lengthMismatch(counts map[string]int) *AlignmentError {
	return &AlignmentError{Reason: fmt.Sprintf("row counts differ: %v", counts)}
}

func spineMismatch(name string, pos int, a, b model.Point) *AlignmentError {
	return &AlignmentError{Reason: fmt.Sprintf(
		"%s row %d: index/timestamp mismatch (%d %q vs %d %q)",
		name, pos, a.Index, a.Timestamp, b.Index, b.Timestamp)}
}

// CombineAfterSchedule computes the net grid draw at each interval:
// max(0, load + schedule - pv). Surplus PV or discharge beyond the load is
// not modeled as export, so the result is never negative. All three series
// must be pairwise aligned.
func CombineAfterSchedule(load, pv model.Series, schedule model.Schedule) (model.Series, error) {
	if len(load) != len(schedule) || len(load) != len(pv) {
		return nil, lengthMismatch(map[string]int{
			"load": len(load), "pv": len(pv), "schedule": len(schedule),
		})
	}
	out := make(model.Series, len(load))
	for i, lg := range load {
		fp := schedule[i]
		if lg.Index != fp.Index || lg.Timestamp != fp.Timestamp {
			return nil, spineMismatch("schedule", i, lg, model.Point{Index: fp.Index, Timestamp: fp.Timestamp})
		}
		if lg.Index != pv[i].Index || lg.Timestamp != pv[i].Timestamp {
			return nil, spineMismatch("pv", i, lg, pv[i])
		}
		net := lg.Value + fp.Value - pv[i].Value
		if net < 0 {
			net = 0
		}
		out[i] = model.Point{
			Index:     lg.Index,
			Timestamp: lg.Timestamp,
			Value:     model.Round2(net),
		}
	}
	return out, nil
}
