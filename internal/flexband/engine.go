// Package flexband computes the physical envelope of chargeable and
// dischargeable power per interval, given the current schedule, the nameplate
// limits and the load's peak constraint.
package flexband

import (
	"fmt"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

// KPIs summarize a computed band.
type KPIs struct {
	MaxChargeKW    float64 `json:"max_charge_kW"`
	MaxDischargeKW float64 `json:"max_discharge_kW"`
	MaxSoCKWh      float64 `json:"max_soc_kWh"`
	MinSoCKWh      float64 `json:"min_soc_kWh"`
	Cycles         float64 `json:"cycles"`
}

// Compute derives the load-constrained flexibility band for a schedule.
//
// The first pass bounds the potentials by the derated nameplate power and the
// schedule's own setpoint. The second pass tightens them against the net
// load: charging must not push the net load above the year peak, discharging
// must not exceed the instantaneous load. Both passes run the same SoC
// recurrence without clamping; an out-of-bounds trajectory here is the
// diagnostic signal for a baseline schedule that already violates limits.
func Compute(schedule model.Schedule, netLoad model.Series, params model.SystemParams) (model.Flexband, KPIs, error) {
	if err := params.Validate(); err != nil {
		return nil, KPIs{}, err
	}
	if len(schedule) != len(netLoad) {
		return nil, KPIs{}, fmt.Errorf("flexband: schedule has %d rows, net load has %d", len(schedule), len(netLoad))
	}
	if len(schedule) == 0 {
		return nil, KPIs{}, fmt.Errorf("flexband: empty schedule")
	}

	usable := params.UsablePowerKW()
	socs := SoCTrajectory(schedule, params, false)

	// Unconstrained pass: nameplate and setpoint only.
	band := make(model.Flexband, len(schedule))
	for i, fp := range schedule {
		var charge, discharge float64
		switch {
		case fp.Value < 0:
			charge = 0
			discharge = -usable - fp.Value
		case fp.Value > 0:
			charge = usable - fp.Value
			discharge = 0
		default:
			charge = usable
			discharge = -usable
		}
		band[i] = model.FlexbandPoint{
			Index:              fp.Index,
			Timestamp:          fp.Timestamp,
			ChargePotential:    model.Round2(charge),
			DischargePotential: model.Round2(discharge),
			SoC:                model.Round2(socs[i]),
		}
	}

	// Load-constrained pass: never exceed the observed peak when charging,
	// never discharge more than the load itself.
	peak := netLoad.Peak()
	for i := range band {
		headroom := peak - netLoad[i].Value
		if band[i].ChargePotential > headroom {
			band[i].ChargePotential = model.Round2(headroom)
		}
		if band[i].DischargePotential < -netLoad[i].Value {
			band[i].DischargePotential = model.Round2(-netLoad[i].Value)
		}
	}

	kpis := KPIs{
		MaxChargeKW:    schedule.Series().Peak(),
		MaxDischargeKW: schedule.Series().Min(),
		Cycles:         model.Round2(schedule.Cycles(params.CapacityKWh)),
	}
	kpis.MaxSoCKWh = band[0].SoC
	kpis.MinSoCKWh = band[0].SoC
	for _, p := range band[1:] {
		if p.SoC > kpis.MaxSoCKWh {
			kpis.MaxSoCKWh = p.SoC
		}
		if p.SoC < kpis.MinSoCKWh {
			kpis.MinSoCKWh = p.SoC
		}
	}
	return band, kpis, nil
}

// SoCTrajectory computes the stored energy at the start of every interval:
// soc[0] is the initial SoC, soc[i] = soc[i-1] + schedule[i-1]/4. With
// clamped=false the trajectory is allowed to leave the operational envelope,
// which is what baseline diagnostics rely on; with clamped=true every step is
// held inside [MinSoC, MaxSoC].
func SoCTrajectory(schedule model.Schedule, params model.SystemParams, clamped bool) []float64 {
	socs := make([]float64, len(schedule))
	soc := params.InitialSoCKWh()
	minSoC := params.MinSoCKWh()
	maxSoC := params.MaxSoCKWh()
	for i := range schedule {
		if i > 0 {
			soc += schedule[i-1].Value * model.IntervalHours
			if clamped {
				if soc < minSoC {
					soc = minSoC
				}
				if soc > maxSoC {
					soc = maxSoC
				}
			}
		}
		socs[i] = soc
	}
	return socs
}
