package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/timeisseler/da-bess-v2/internal/data"
	"github.com/timeisseler/da-bess-v2/internal/model"
	"github.com/timeisseler/da-bess-v2/internal/pipeline"
)

// Demo:
// - Generate a synthetic year: sinusoidal load, midday PV, double-peak prices
// - Run the full optimization pipeline against it
// - Print the run summary and the first accepted strategies
func main() {
	days := flag.Int("days", 365, "Number of days to synthesize")
	detector := flag.String("detector", pipeline.DetectorConstantSoC, "Window detector (constant-soc or flexible-arbitrage)")
	outJSON := flag.String("out", "", "Optional path to write the full result JSON")
	flag.Parse()

	load, pv, prices, baseline := synthesize(*days)

	params := model.SystemParams{
		CapacityKWh:   100,
		PowerKW:       100,
		AvgPriceCtKWh: 18.0,
		DailyCycles:   2,
	}

	engine := pipeline.New(params, pipeline.Options{Detector: *detector})
	res, err := engine.Run(pipeline.Inputs{
		Load:     load,
		PV:       pv,
		Prices:   prices,
		Baseline: baseline,
	})
	if err != nil {
		panic(err)
	}

	s := res.Summary
	fmt.Printf("Synthetic run over %d days (%d intervals)\n", *days, len(load))
	fmt.Printf("Windows=%d Strategies=%d Implemented=%d Skipped=%d\n",
		s.WindowCount, s.StrategyCount, s.ImplementedCount, s.SkippedCount)
	fmt.Printf("Baseline cost=%.2f EUR Final cost=%.2f EUR Profit=%.2f EUR\n",
		s.BaselineCostEuro, s.FinalCostEuro, s.TotalProfitEuro)
	fmt.Printf("Price spread p95-p05=%.2f ct/kWh\n", res.PricePotential.SpreadP95P05)

	for i, impl := range res.Merge.Implemented {
		if i >= 5 {
			fmt.Printf("... and %d more\n", len(res.Merge.Implemented)-5)
			break
		}
		fmt.Printf("#%d %s window=%d [%d..%d] profit=%.2f EUR\n",
			impl.Order, impl.Type, impl.WindowID, impl.StartIndex, impl.EndIndex, impl.ProfitEuro)
	}

	if *outJSON != "" {
		if err := data.WriteJSON(*outJSON, res); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote result to %s\n", *outJSON)
	}
}

// synthesize builds one year of quarter-hour series. Load peaks in the
// morning and evening, PV around noon, prices follow load with extra spread.
func synthesize(days int) (load, pv, prices model.Series, baseline model.Schedule) {
	n := days * 96
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	load = make(model.Series, n)
	pv = make(model.Series, n)
	prices = make(model.Series, n)
	base := make(model.Series, n)

	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * 15 * time.Minute).Format("2006-01-02 15:04")
		hour := float64(i%96) / 4.0

		// Two daily load humps around 08:00 and 19:00 on top of a base load.
		l := 40 +
			25*math.Exp(-sq(hour-8)/8) +
			35*math.Exp(-sq(hour-19)/8)

		// PV bell around 13:00, zero at night.
		p := 60 * math.Exp(-sq(hour-13)/6)
		if hour < 6 || hour > 20 {
			p = 0
		}

		// Prices mirror net demand: cheap at night and midday, pricey at peaks.
		pr := 14 +
			9*math.Exp(-sq(hour-8)/5) +
			12*math.Exp(-sq(hour-19)/5) -
			6*math.Exp(-sq(hour-13)/6)

		load[i] = model.Point{Index: i + 1, Timestamp: ts, Value: model.Round2(l)}
		pv[i] = model.Point{Index: i + 1, Timestamp: ts, Value: model.Round2(p)}
		prices[i] = model.Point{Index: i + 1, Timestamp: ts, Value: model.Round4(pr)}
		base[i] = model.Point{Index: i + 1, Timestamp: ts}
	}
	return load, pv, prices, model.ScheduleFromSeries(base)
}

func sq(x float64) float64 { return x * x }
