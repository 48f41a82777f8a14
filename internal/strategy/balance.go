package strategy

import (
	"math"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

// The generators aim for zero net SoC effect per window. When rounding or
// forced-zero steps leave a residue beyond the tolerance, the residue is
// redistributed over a correction range; if any adjusted step would violate
// the flexibility band or the SoC envelope, the whole candidate is discarded
// rather than partially applied.

// netEnergyKWh is the strategy's own net SoC effect on the window.
func netEnergyKWh(steps []model.StrategyStep) float64 {
	sum := 0.0
	for _, st := range steps {
		sum += st.ActionKW * model.IntervalHours
	}
	return sum
}

// balance corrects a Simple/Aggressive candidate over the last quarter of its
// steps. firstPos is the first position of the correction range.
func (g *Generator) balance(wd windowData, steps []model.StrategyStep, firstPos int) []model.StrategyStep {
	if steps == nil {
		return nil
	}
	diff := netEnergyKWh(steps)
	if math.Abs(diff) <= model.SoCToleranceKWh {
		return steps
	}
	if firstPos < 0 {
		firstPos = 0
	}
	positions := make([]int, 0, len(steps)-firstPos)
	for i := firstPos; i < len(steps); i++ {
		positions = append(positions, i)
	}
	return applyCorrection(wd, steps, positions, diff)
}

// balanceSecondHalf corrects a DischargeThenCharge candidate. Excess charge is
// taken back from the second-half charging steps; a shortfall is spread over
// the whole second half.
func (g *Generator) balanceSecondHalf(wd windowData, steps []model.StrategyStep, mid int) []model.StrategyStep {
	if steps == nil {
		return nil
	}
	diff := netEnergyKWh(steps)
	if math.Abs(diff) <= model.SoCToleranceKWh {
		return steps
	}
	var positions []int
	for i := mid; i < len(steps); i++ {
		if diff > 0 && steps[i].ActionKW <= 0 {
			continue
		}
		positions = append(positions, i)
	}
	return applyCorrection(wd, steps, positions, diff)
}

// applyCorrection spreads the needed kW correction evenly across the given
// positions, re-validating the flexibility band and SoC bounds at every
// adjusted step and re-propagating the SoC path forward. Returns nil when the
// correction cannot be applied without a violation.
func applyCorrection(wd windowData, steps []model.StrategyStep, positions []int, diffKWh float64) []model.StrategyStep {
	if len(positions) == 0 {
		return nil
	}
	corrected := make([]model.StrategyStep, len(steps))
	copy(corrected, steps)

	perStep := -diffKWh * model.IntervalsPerHour / float64(len(positions))

	for _, i := range positions {
		newAction := corrected[i].ActionKW + perStep
		if newAction < wd.band[i].DischargePotential || newAction > wd.band[i].ChargePotential {
			return nil
		}

		prev := wd.baseSoC
		if i > 0 {
			prev = corrected[i-1].SoCAfter
		}
		newSoC := prev + (wd.schedule[i].Value+newAction)*model.IntervalHours
		if newSoC < wd.minSoC || newSoC > wd.maxSoC {
			return nil
		}

		corrected[i].ActionKW = model.Round2(newAction)
		corrected[i].SoCAfter = model.Round2(newSoC)

		for j := i + 1; j < len(corrected); j++ {
			corrected[j].SoCAfter = model.Round2(
				corrected[j-1].SoCAfter + (wd.schedule[j].Value+corrected[j].ActionKW)*model.IntervalHours)
		}
	}
	return corrected
}
