package window

import (
	"math"
	"sort"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

// FlexibleArbitrage extends a window from a starting interval while EITHER
// the SoC stays within a tolerance of the window's start value OR the
// schedule's activity stays below a fraction of the year's peak activity.
// Each window gets a quality score in [0,1]; the result is sorted by quality
// descending.
type FlexibleArbitrage struct {
	MinLen            int     // minimum window length in intervals; default DefaultMinLen
	SoCTolerance      float64 // fraction of capacity; default 0.05
	ActivityThreshold float64 // fraction of peak |schedule| activity; default 0.10
	MaxWindowHours    float64 // chunking cap; default 12h
}

func (d FlexibleArbitrage) Name() string { return "flexible-arbitrage" }

func (d FlexibleArbitrage) Detect(band model.Flexband, schedule model.Schedule, params model.SystemParams) []model.Window {
	minLen := d.MinLen
	if minLen <= 0 {
		minLen = DefaultMinLen
	}
	tolFrac := d.SoCTolerance
	if tolFrac <= 0 {
		tolFrac = 0.05
	}
	actFrac := d.ActivityThreshold
	if actFrac <= 0 {
		actFrac = 0.10
	}
	maxHours := d.MaxWindowHours
	if maxHours <= 0 {
		maxHours = 12
	}
	maxLen := int(maxHours * model.IntervalsPerHour)
	if maxLen < minLen {
		maxLen = minLen
	}

	tolKWh := tolFrac * params.CapacityKWh
	peakActivity := 0.0
	for _, fp := range schedule {
		if a := math.Abs(fp.Value); a > peakActivity {
			peakActivity = a
		}
	}
	threshold := actFrac * peakActivity

	var windows []model.Window
	n := len(band)
	id := 1
	i := 0
	for i < n {
		start := i
		startSoC := band[start].SoC
		j := start
		for j < n && d.relaxed(band[j].SoC, startSoC, tolKWh, schedule[j].Value, threshold) {
			j++
		}
		run := span{start: start, end: j - 1}
		if run.end >= run.start && run.end-run.start+1 >= minLen {
			for _, c := range chunk(run, minLen, maxLen) {
				windows = append(windows, d.window(id, band, schedule, c, tolKWh, threshold))
				id++
			}
		}
		if j > start {
			i = j
		} else {
			i = start + 1
		}
	}

	sort.SliceStable(windows, func(a, b int) bool {
		return windows[a].Quality > windows[b].Quality
	})
	return windows
}

// relaxed is the union of the two relaxation criteria: stable SoC or calm
// schedule.
func (d FlexibleArbitrage) relaxed(soc, startSoC, tolKWh, activity, threshold float64) bool {
	return math.Abs(soc-startSoC) <= tolKWh || math.Abs(activity) <= threshold
}

func (d FlexibleArbitrage) window(id int, band model.Flexband, schedule model.Schedule, c span, tolKWh, threshold float64) model.Window {
	baseSoC := band[c.start].SoC
	variation := 0.0
	activitySum := 0.0
	for k := c.start; k <= c.end; k++ {
		if dev := math.Abs(band[k].SoC - baseSoC); dev > variation {
			variation = dev
		}
		activitySum += math.Abs(schedule[k].Value)
	}
	length := c.end - c.start + 1
	avgActivity := activitySum / float64(length)

	socStability := 0.0
	if tolKWh > 0 {
		socStability = math.Max(0, 1-variation/(2*tolKWh))
	}
	activityCalm := 0.0
	if threshold > 0 {
		activityCalm = math.Max(0, 1-avgActivity/threshold)
	} else if avgActivity == 0 {
		activityCalm = 1
	}

	return model.Window{
		ID:      id,
		Start:   band[c.start].Index,
		End:     band[c.end].Index,
		BaseSoC: baseSoC,
		Length:  length,
		Quality: (socStability + activityCalm) / 2,
	}
}
