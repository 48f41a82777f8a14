package window

import "github.com/timeisseler/da-bess-v2/internal/model"

// ConstantSoC finds maximal runs of bit-equal SoC values. Runs shorter than
// MinLen are discarded; runs longer than 2·MinLen are chunked.
type ConstantSoC struct {
	MinLen int
}

func (d ConstantSoC) Name() string { return "constant-soc" }

func (d ConstantSoC) Detect(band model.Flexband, _ model.Schedule, _ model.SystemParams) []model.Window {
	minLen := d.MinLen
	if minLen <= 0 {
		minLen = DefaultMinLen
	}

	var windows []model.Window
	n := len(band)
	id := 1
	i := 0
	for i < n {
		start := i
		for i+1 < n && band[i+1].SoC == band[start].SoC {
			i++
		}
		run := span{start: start, end: i}
		if run.end-run.start+1 >= minLen {
			for _, c := range chunk(run, minLen, 2*minLen) {
				windows = append(windows, model.Window{
					ID:      id,
					Start:   band[c.start].Index,
					End:     band[c.end].Index,
					BaseSoC: band[c.start].SoC,
					Length:  c.end - c.start + 1,
				})
				id++
			}
		}
		i++
	}
	return windows
}
