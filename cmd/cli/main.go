package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/timeisseler/da-bess-v2/internal/analysis"
	"github.com/timeisseler/da-bess-v2/internal/config"
	"github.com/timeisseler/da-bess-v2/internal/data"
	"github.com/timeisseler/da-bess-v2/internal/pipeline"
	"github.com/timeisseler/da-bess-v2/internal/series"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "optimize":
		cmdOptimize(os.Args[2:])
	case "costs":
		cmdCosts(os.Args[2:])
	case "potential":
		cmdPotential(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli optimize --config examples/config.yaml --out results/")
	fmt.Println("  cli costs --load netload.csv --prices prices.csv")
	fmt.Println("  cli potential --prices prices.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - optimize writes schedule, flexband, windows, strategies and an implementation log")
	fmt.Println("  - costs prices a net load series against day-ahead prices")
	fmt.Println("  - potential summarizes the price spread a battery could capture")
}

func cmdOptimize(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	outDir := fs.String("out", "results", "Output directory")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	in, err := loadInputs(cfg)
	if err != nil {
		panic(err)
	}

	engine := pipeline.New(cfg.System.ToParams(), cfg.Pipeline.ToOptions())
	res, err := engine.Run(in)
	if err != nil {
		panic(err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		panic(err)
	}
	writeOutputs(*outDir, res)

	s := res.Summary
	fmt.Printf("Windows=%d Strategies=%d Implemented=%d Skipped=%d\n",
		s.WindowCount, s.StrategyCount, s.ImplementedCount, s.SkippedCount)
	fmt.Printf("Baseline cost=%.2f EUR Final cost=%.2f EUR Profit=%.2f EUR\n",
		s.BaselineCostEuro, s.FinalCostEuro, s.TotalProfitEuro)
	fmt.Printf("SoC range=[%.1f, %.1f] kWh Cycles=%.2f\n", s.MinSoCKWh, s.MaxSoCKWh, s.Cycles)
	if s.BaselineViolated {
		fmt.Println("WARNING: baseline schedule violates SoC bounds, see baseline report in result.json")
	}
}

func loadInputs(cfg *config.Config) (pipeline.Inputs, error) {
	load, err := data.LoadSeries(cfg.Inputs.Load)
	if err != nil {
		return pipeline.Inputs{}, fmt.Errorf("load series: %w", err)
	}
	pv, err := data.LoadSeries(cfg.Inputs.PV)
	if err != nil {
		return pipeline.Inputs{}, fmt.Errorf("pv series: %w", err)
	}
	prices, err := data.LoadSeries(cfg.Inputs.Prices)
	if err != nil {
		return pipeline.Inputs{}, fmt.Errorf("price series: %w", err)
	}
	baseline, err := data.LoadSchedule(cfg.Inputs.Baseline)
	if err != nil {
		return pipeline.Inputs{}, fmt.Errorf("baseline schedule: %w", err)
	}
	return pipeline.Inputs{Load: load, PV: pv, Prices: prices, Baseline: baseline}, nil
}

func writeOutputs(dir string, res *pipeline.Result) {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"schedule.csv", func() error {
			return pipeline.WriteScheduleCSV(filepath.Join(dir, "schedule.csv"), res.Merge.Schedule)
		}},
		{"flexband.csv", func() error {
			return pipeline.WriteFlexbandCSV(filepath.Join(dir, "flexband.csv"), res.Flexband)
		}},
		{"windows.csv", func() error {
			return pipeline.WriteWindowsCSV(filepath.Join(dir, "windows.csv"), res.Windows)
		}},
		{"strategies.csv", func() error {
			return pipeline.WriteStrategiesCSV(filepath.Join(dir, "strategies.csv"), res.Strategies)
		}},
		{"implementations.csv", func() error {
			return pipeline.WriteImplementationsCSV(filepath.Join(dir, "implementations.csv"), res.Merge.Implemented)
		}},
		{"final_net_load.csv", func() error {
			return data.WriteSeriesCSV(filepath.Join(dir, "final_net_load.csv"), res.FinalNetLoad)
		}},
		{"result.json", func() error {
			return data.WriteJSON(filepath.Join(dir, "result.json"), res)
		}},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			panic(fmt.Errorf("write %s: %w", s.name, err))
		}
	}
	fmt.Printf("Wrote run artifacts to %s\n", dir)
}

func cmdCosts(args []string) {
	fs := flag.NewFlagSet("costs", flag.ExitOnError)
	loadPath := fs.String("load", "", "Path to net load series (CSV or JSON)")
	pricePath := fs.String("prices", "", "Path to day-ahead price series (CSV or JSON)")
	outPath := fs.String("out", "", "Optional path to write per-interval costs CSV")
	_ = fs.Parse(args)

	if *loadPath == "" || *pricePath == "" {
		fmt.Println("--load and --prices are required")
		os.Exit(2)
	}

	netLoad, err := data.LoadSeries(*loadPath)
	if err != nil {
		panic(err)
	}
	prices, err := data.LoadSeries(*pricePath)
	if err != nil {
		panic(err)
	}

	summary, err := series.DayAheadCosts(netLoad, prices)
	if err != nil {
		panic(err)
	}

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			panic(err)
		}
		if err := data.WriteSeriesCSV(*outPath, summary.Costs); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d rows to %s\n", len(summary.Costs), *outPath)
	}

	fmt.Printf("Total cost=%.2f EUR Energy=%.1f kWh Avg=%.4f EUR/kWh\n",
		summary.TotalCostEuro, summary.TotalEnergyKWh, summary.AvgCostPerKWh)
}

func cmdPotential(args []string) {
	fs := flag.NewFlagSet("potential", flag.ExitOnError)
	pricePath := fs.String("prices", "", "Path to day-ahead price series (CSV or JSON)")
	_ = fs.Parse(args)

	if *pricePath == "" {
		fmt.Println("--prices is required")
		os.Exit(2)
	}

	prices, err := data.LoadSeries(*pricePath)
	if err != nil {
		panic(err)
	}

	p := analysis.ComputePotential(prices)
	fmt.Printf("Intervals=%d\n", p.Count)
	fmt.Printf("Price ct/kWh: min=%.2f p05=%.2f mean=%.2f p95=%.2f max=%.2f\n",
		p.MinPrice, p.P05Price, p.MeanPrice, p.P95Price, p.MaxPrice)
	fmt.Printf("Spread p95-p05=%.2f ct/kWh\n", p.SpreadP95P05)
}
