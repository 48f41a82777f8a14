package data

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

// LoadSeries dispatches on the file extension. Config files may point at
// either CSV or JSON series.
func LoadSeries(path string) (model.Series, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadSeriesCSV(path)
	case ".json":
		return LoadSeriesJSON(path)
	default:
		return nil, fmt.Errorf("load %s: unsupported extension", path)
	}
}

// LoadSchedule reads a baseline schedule from CSV or JSON.
func LoadSchedule(path string) (model.Schedule, error) {
	s, err := LoadSeries(path)
	if err != nil {
		return nil, err
	}
	return model.ScheduleFromSeries(s), nil
}
