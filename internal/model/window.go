package model

// Window is a contiguous span of intervals selected as a candidate for
// strategy generation. Start and End are the 1-based point indices of the
// first and last interval, inclusive, and cover exactly the scanned range.
// Quality is only set by the flexible-arbitrage detector; the constant-SoC
// detector leaves it zero.
type Window struct {
	ID      int     `json:"id"`
	Start   int     `json:"start_index"`
	End     int     `json:"end_index"`
	BaseSoC float64 `json:"base_soc"`
	Length  int     `json:"length_intervals"`
	Quality float64 `json:"quality_score,omitempty"`
}
