package merge

import (
	"github.com/timeisseler/da-bess-v2/internal/flexband"
	"github.com/timeisseler/da-bess-v2/internal/model"
)

// StepLog is one interval of an accepted strategy as it landed in the merged
// schedule. CostEuro is negative for charging (a cost) and positive for
// discharging (an avoided-cost credit), converted from ct to €.
type StepLog struct {
	Index            int          `json:"index"`
	Timestamp        string       `json:"timestamp"`
	ActionType       model.Action `json:"action_type"`
	OriginalValueKW  float64      `json:"original_value_kW"`
	StrategyActionKW float64      `json:"strategy_action_kW"`
	ResultValueKW    float64      `json:"result_value_kW"`
	SoCKWh           float64      `json:"soc_kWh"`
	PriceCtKWh       float64      `json:"price_ct_kWh"`
	EnergyKWh        float64      `json:"energy_kWh"`
	CostEuro         float64      `json:"cost_euro"`
}

// Implementation is the auditable record of one accepted strategy.
type Implementation struct {
	StrategyID  int                `json:"strategy_id"`
	WindowID    int                `json:"window_id"`
	Type        model.StrategyType `json:"type"`
	StartIndex  int                `json:"start_index"`
	EndIndex    int                `json:"end_index"`
	LengthHours float64            `json:"length_hours"`
	BaseSoC     float64            `json:"base_soc"`
	ProfitEuro  float64            `json:"profit_euro"`
	Order       int                `json:"order"`
	Steps       []StepLog          `json:"steps"`
}

func buildImplementation(s model.Strategy, before, after model.Schedule, params model.SystemParams, order int) Implementation {
	base := before[0].Index
	socs := flexband.SoCTrajectory(after, params, false)

	impl := Implementation{
		StrategyID:  s.ID,
		WindowID:    s.WindowID,
		Type:        s.Type,
		StartIndex:  s.StartIndex,
		EndIndex:    s.EndIndex,
		LengthHours: s.LengthHours,
		BaseSoC:     s.BaseSoC,
		ProfitEuro:  s.ProfitEuro,
		Order:       order,
		Steps:       make([]StepLog, 0, len(s.Steps)),
	}
	for _, st := range s.Steps {
		pos := st.Index - base
		energy := st.ActionKW * model.IntervalHours
		impl.Steps = append(impl.Steps, StepLog{
			Index:            st.Index,
			Timestamp:        st.Timestamp,
			ActionType:       model.ActionFromPowerKW(st.ActionKW),
			OriginalValueKW:  before[pos].Value,
			StrategyActionKW: st.ActionKW,
			ResultValueKW:    after[pos].Value,
			SoCKWh:           model.Round2(socs[pos] + after[pos].Value*model.IntervalHours),
			PriceCtKWh:       st.PriceCtKWh,
			EnergyKWh:        model.Round2(energy),
			CostEuro:         model.Round4(-(st.PriceCtKWh * energy) / 100),
		})
	}
	return impl
}
