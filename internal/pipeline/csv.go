package pipeline

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/timeisseler/da-bess-v2/internal/merge"
	"github.com/timeisseler/da-bess-v2/internal/model"
)

// The CSV artifacts follow the input convention: semicolon-separated columns,
// decimal comma.

func newWriter(f *os.File) *csv.Writer {
	w := csv.NewWriter(f)
	w.Comma = ';'
	return w
}

// WriteScheduleCSV writes a merged schedule ledger with its SoC trajectory.
func WriteScheduleCSV(path string, schedule model.Schedule) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := newWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"index", "timestamp", "value", "soc"}); err != nil {
		return err
	}
	for _, p := range schedule {
		row := []string{
			strconv.Itoa(p.Index),
			p.Timestamp,
			fmtFloat(p.Value, 2),
			fmtFloat(p.SoC, 2),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteFlexbandCSV writes the load-constrained band.
func WriteFlexbandCSV(path string, band model.Flexband) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := newWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"index", "timestamp", "charge_potential", "discharge_potential", "soc"}); err != nil {
		return err
	}
	for _, p := range band {
		row := []string{
			strconv.Itoa(p.Index),
			p.Timestamp,
			fmtFloat(p.ChargePotential, 2),
			fmtFloat(p.DischargePotential, 2),
			fmtFloat(p.SoC, 2),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteWindowsCSV writes the detected windows.
func WriteWindowsCSV(path string, windows []model.Window) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := newWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"id", "start_index", "end_index", "base_soc", "length_intervals", "quality_score"}); err != nil {
		return err
	}
	for _, win := range windows {
		row := []string{
			strconv.Itoa(win.ID),
			strconv.Itoa(win.Start),
			strconv.Itoa(win.End),
			fmtFloat(win.BaseSoC, 2),
			strconv.Itoa(win.Length),
			fmtFloat(win.Quality, 4),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteStrategiesCSV writes the ranked strategy summary (without step detail).
func WriteStrategiesCSV(path string, strategies []model.Strategy) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := newWriter(f)
	defer w.Flush()

	header := []string{
		"strategy_id", "window_id", "type", "start_index", "end_index",
		"length_hours", "base_soc", "max_soc_reached", "min_soc_reached",
		"total_charge_kwh", "total_discharge_kwh", "profit_euro",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range strategies {
		row := []string{
			strconv.Itoa(s.ID),
			strconv.Itoa(s.WindowID),
			string(s.Type),
			strconv.Itoa(s.StartIndex),
			strconv.Itoa(s.EndIndex),
			fmtFloat(s.LengthHours, 2),
			fmtFloat(s.BaseSoC, 2),
			fmtFloat(s.MaxSoCReached, 2),
			fmtFloat(s.MinSoCReached, 2),
			fmtFloat(s.TotalChargeKWh, 2),
			fmtFloat(s.TotalDischargeKWh, 2),
			fmtFloat(s.ProfitEuro, 2),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteImplementationsCSV writes the acceptance log, one row per accepted
// strategy.
func WriteImplementationsCSV(path string, impls []merge.Implementation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := newWriter(f)
	defer w.Flush()

	header := []string{
		"order", "strategy_id", "window_id", "type",
		"start_index", "end_index", "length_hours", "profit_euro",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, impl := range impls {
		row := []string{
			strconv.Itoa(impl.Order),
			strconv.Itoa(impl.StrategyID),
			strconv.Itoa(impl.WindowID),
			string(impl.Type),
			strconv.Itoa(impl.StartIndex),
			strconv.Itoa(impl.EndIndex),
			fmtFloat(impl.LengthHours, 2),
			fmtFloat(impl.ProfitEuro, 2),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(x float64, prec int) string {
	return strings.ReplaceAll(strconv.FormatFloat(x, 'f', prec, 64), ".", ",")
}
