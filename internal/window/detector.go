// Package window segments the year into candidate arbitrage periods, based
// either on runs of constant SoC or on combined SoC-stability/schedule-calm
// criteria.
package window

import "github.com/timeisseler/da-bess-v2/internal/model"

// DefaultMinLen is the minimum window length in intervals (3 hours).
const DefaultMinLen = 12

// Detector finds candidate windows over a flexibility band. Implementations
// must emit non-overlapping windows whose [Start, End] cover exactly the
// scanned index range, inclusive.
type Detector interface {
	Name() string
	Detect(band model.Flexband, schedule model.Schedule, params model.SystemParams) []model.Window
}

// span is a half-open scan result in 0-based slice positions, [start, end]
// inclusive.
type span struct {
	start, end int
}

// chunk splits a run into pieces of at most maxLen intervals. A piece is only
// cut off if at least minLen intervals remain for the tail; otherwise the
// tail merges into the last piece.
func chunk(s span, minLen, maxLen int) []span {
	length := s.end - s.start + 1
	if length <= maxLen {
		return []span{s}
	}
	var out []span
	cur := s.start
	for cur <= s.end {
		curEnd := cur + maxLen - 1
		if curEnd > s.end {
			curEnd = s.end
		}
		if s.end-curEnd >= minLen {
			out = append(out, span{start: cur, end: curEnd})
			cur = curEnd + 1
		} else {
			out = append(out, span{start: cur, end: s.end})
			break
		}
	}
	return out
}
