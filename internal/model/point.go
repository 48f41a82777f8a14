package model

// Point represents one 15-minute interval row of a time series.
// Depending on the series it carries power (kW), a day-ahead price (ct/kWh)
// or a cost (€). Index is 1-based, unique and monotonic; all series of one
// run share the same (Index, Timestamp) spine.
type Point struct {
	Index     int     `json:"index"`
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Series is a full-year sequence of points. Stages never mutate a series
// in place; each stage produces a new one.
type Series []Point

// Peak returns the maximum value over the series (0 for an empty series).
func (s Series) Peak() float64 {
	if len(s) == 0 {
		return 0
	}
	peak := s[0].Value
	for _, p := range s[1:] {
		if p.Value > peak {
			peak = p.Value
		}
	}
	return peak
}

// Min returns the minimum value over the series (0 for an empty series).
func (s Series) Min() float64 {
	if len(s) == 0 {
		return 0
	}
	min := s[0].Value
	for _, p := range s[1:] {
		if p.Value < min {
			min = p.Value
		}
	}
	return min
}

// EnergyKWh integrates the series, treating values as kW over 15-minute
// intervals.
func (s Series) EnergyKWh() float64 {
	sum := 0.0
	for _, p := range s {
		sum += p.Value * IntervalHours
	}
	return sum
}

// Clone returns an independent copy of the series.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}
