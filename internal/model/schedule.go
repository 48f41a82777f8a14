package model

// SchedulePoint is one interval of a battery schedule (Fahrplan).
// Value is the power setpoint in kW, positive = charge, negative = discharge.
// SoC is the stored energy at the start of the interval; it is zero until a
// trajectory has been computed for the schedule.
type SchedulePoint struct {
	Index     int     `json:"index"`
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
	SoC       float64 `json:"soc,omitempty"`
}

// Schedule is the central artifact of a run: it starts as the user-supplied
// baseline, is read-only during window/strategy generation, and is merged
// into incrementally by the merger.
type Schedule []SchedulePoint

// ScheduleFromSeries converts a plain series into a schedule without SoC.
func ScheduleFromSeries(s Series) Schedule {
	out := make(Schedule, len(s))
	for i, p := range s {
		out[i] = SchedulePoint{Index: p.Index, Timestamp: p.Timestamp, Value: p.Value}
	}
	return out
}

// Series strips the SoC annotation back off.
func (s Schedule) Series() Series {
	out := make(Series, len(s))
	for i, p := range s {
		out[i] = Point{Index: p.Index, Timestamp: p.Timestamp, Value: p.Value}
	}
	return out
}

// Clone returns an independent copy of the schedule.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	copy(out, s)
	return out
}

// ChargedEnergyKWh sums the energy of all charging intervals.
func (s Schedule) ChargedEnergyKWh() float64 {
	sum := 0.0
	for _, p := range s {
		if p.Value > 0 {
			sum += p.Value * IntervalHours
		}
	}
	return sum
}

// Cycles is the charged energy expressed in full-capacity equivalents.
func (s Schedule) Cycles(capacityKWh float64) float64 {
	if capacityKWh <= 0 {
		return 0
	}
	return s.ChargedEnergyKWh() / capacityKWh
}
