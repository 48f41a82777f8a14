package data

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

// LoadSeriesJSON reads a series stored as a JSON array of points.
func LoadSeriesJSON(path string) (model.Series, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s model.Series
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// WriteJSON marshals v indented and writes it to path. Used for the run
// result and the implementation log.
func WriteJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
