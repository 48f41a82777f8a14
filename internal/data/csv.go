package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

// LoadSeriesCSV reads a quarter-hour series from a semicolon-separated file
// with an index;timestamp;value header. Values may use either a decimal
// point or a decimal comma.
func LoadSeriesCSV(path string) (model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: empty file", path)
	}

	header := records[0]
	if strings.ToLower(strings.TrimSpace(header[0])) != "index" {
		return nil, fmt.Errorf("read %s: unexpected header %q", path, strings.Join(header, ";"))
	}

	out := make(model.Series, 0, len(records)-1)
	for i, rec := range records[1:] {
		idx, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: index: %w", path, i+2, err)
		}
		val, err := ParseFloat(rec[2])
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: value: %w", path, i+2, err)
		}
		out = append(out, model.Point{
			Index:     idx,
			Timestamp: strings.TrimSpace(rec[1]),
			Value:     val,
		})
	}
	return out, nil
}

// WriteSeriesCSV writes a series in the same layout LoadSeriesCSV reads,
// decimal comma included.
func WriteSeriesCSV(path string, s model.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	defer w.Flush()

	if err := w.Write([]string{"index", "timestamp", "value"}); err != nil {
		return err
	}
	for _, p := range s {
		row := []string{
			strconv.Itoa(p.Index),
			p.Timestamp,
			strings.ReplaceAll(strconv.FormatFloat(p.Value, 'f', 2, 64), ".", ","),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// ParseFloat accepts both 1234.5 and 1.234,5 style numbers.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}
