package model

// Action is a human-friendly operating mode for a timestep.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionCharging    Action = "CHARGING"
	ActionIdle        Action = "IDLE"
	ActionDischarging Action = "DISCHARGING"
)

// ActionFromPowerKW maps a signed schedule value to its operating mode.
// Convention: positive kW = charge, negative kW = discharge.
func ActionFromPowerKW(powerKW float64) Action {
	switch {
	case powerKW > 0:
		return ActionCharging
	case powerKW < 0:
		return ActionDischarging
	default:
		return ActionIdle
	}
}
