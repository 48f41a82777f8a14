package model

import "errors"

// Interval geometry of the input data: four 15-minute intervals per hour.
const (
	IntervalsPerHour = 4
	IntervalHours    = 0.25
)

// Operational SoC envelope and starting point, as fractions of nameplate
// capacity.
const (
	MinSoCFraction     = 0.05
	MaxSoCFraction     = 0.95
	InitialSoCFraction = 0.30
)

// PowerDerating caps usable charge/discharge power below nameplate.
const PowerDerating = 0.95

// SoCToleranceKWh is the sub-interval rounding slack applied wherever a SoC
// trajectory is compared against a bound. Actions are rounded to 0.01 kW and
// energies to 0.01 kWh, so trajectories may drift by fractions of a kWh over
// long horizons without any step being infeasible.
const SoCToleranceKWh = 1.0

// SystemParams are the process-wide scalar constants of one optimization run.
type SystemParams struct {
	CapacityKWh   float64 `json:"capacity_kWh"`
	PowerKW       float64 `json:"power_kW"`
	AvgPriceCtKWh float64 `json:"avg_price_ct_kWh"`
	DailyCycles   int     `json:"daily_cycles"`
}

func (p SystemParams) Validate() error {
	if p.CapacityKWh <= 0 {
		return errors.New("capacity_kWh must be > 0")
	}
	if p.PowerKW <= 0 {
		return errors.New("power_kW must be > 0")
	}
	if p.AvgPriceCtKWh <= 0 {
		return errors.New("avg_price_ct_kWh must be > 0")
	}
	if p.DailyCycles < 1 {
		return errors.New("daily_cycles must be >= 1")
	}
	return nil
}

// MinSoCKWh is the lower operational SoC bound.
func (p SystemParams) MinSoCKWh() float64 { return MinSoCFraction * p.CapacityKWh }

// MaxSoCKWh is the upper operational SoC bound.
func (p SystemParams) MaxSoCKWh() float64 { return MaxSoCFraction * p.CapacityKWh }

// InitialSoCKWh is the assumed SoC at the first interval of the year.
func (p SystemParams) InitialSoCKWh() float64 { return InitialSoCFraction * p.CapacityKWh }

// UsablePowerKW is the derated charge/discharge power limit.
func (p SystemParams) UsablePowerKW() float64 { return PowerDerating * p.PowerKW }
