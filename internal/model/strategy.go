package model

// StrategyType identifies which heuristic produced a candidate.
// Keep these values stable; they are intended for CSV output.
type StrategyType string

const (
	StrategySimple             StrategyType = "Simple"
	StrategyAggressive         StrategyType = "Aggressive"
	StrategyDischargeThenCharge StrategyType = "DischargeThenCharge"
)

// StrategyStep is one interval of a candidate strategy. ActionKW is the
// strategy's own delta on top of the schedule (positive = charge). SoCAfter
// is the stored energy after both the schedule and the strategy action of
// this interval have been applied.
type StrategyStep struct {
	Index      int     `json:"index"`
	Timestamp  string  `json:"timestamp"`
	ActionKW   float64 `json:"action_kW"`
	SoCAfter   float64 `json:"soc_after_action"`
	PriceCtKWh float64 `json:"price_ct_kWh"`
}

// Strategy is one scored charge/discharge plan for a window. Strategies are
// immutable once scored: the merger either folds them into the schedule or
// discards them.
type Strategy struct {
	ID                int            `json:"strategy_id"`
	WindowID          int            `json:"window_id"`
	Type              StrategyType   `json:"type"`
	StartIndex        int            `json:"start_index"`
	EndIndex          int            `json:"end_index"`
	LengthHours       float64        `json:"length_hours"`
	BaseSoC           float64        `json:"base_soc"`
	MaxSoCReached     float64        `json:"max_soc_reached"`
	MinSoCReached     float64        `json:"min_soc_reached"`
	TotalChargeKWh    float64        `json:"total_charge_kWh"`
	TotalDischargeKWh float64        `json:"total_discharge_kWh"`
	ProfitEuro        float64        `json:"profit_euro"`
	Steps             []StrategyStep `json:"steps"`
}
