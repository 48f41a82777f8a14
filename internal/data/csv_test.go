package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeisseler/da-bess-v2/internal/model"
)

func TestLoadSeriesCSVDecimalComma(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "load.csv")
	content := "index;timestamp;value\n" +
		"1;2024-01-01 00:00;12,50\n" +
		"2;2024-01-01 00:15;1.234,75\n" +
		"3;2024-01-01 00:30;8.25\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadSeriesCSV(path)
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.Equal(t, 1, s[0].Index)
	assert.Equal(t, "2024-01-01 00:00", s[0].Timestamp)
	assert.InDelta(t, 12.5, s[0].Value, 1e-9)
	assert.InDelta(t, 1234.75, s[1].Value, 1e-9, "thousands dot with decimal comma")
	assert.InDelta(t, 8.25, s[2].Value, 1e-9, "plain decimal point accepted")
}

func TestLoadSeriesCSVErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSeriesCSV(filepath.Join(dir, "nope.csv"))
		assert.Error(t, err)
	})

	t.Run("bad header", func(t *testing.T) {
		path := filepath.Join(dir, "bad-header.csv")
		require.NoError(t, os.WriteFile(path, []byte("a;b;c\n1;x;2\n"), 0o644))
		_, err := LoadSeriesCSV(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected header")
	})

	t.Run("bad value", func(t *testing.T) {
		path := filepath.Join(dir, "bad-value.csv")
		require.NoError(t, os.WriteFile(path, []byte("index;timestamp;value\n1;x;oops\n"), 0o644))
		_, err := LoadSeriesCSV(path)
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		_, err := LoadSeriesCSV(path)
		assert.Error(t, err)
	})
}

func TestWriteSeriesCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	s := model.Series{
		{Index: 1, Timestamp: "2024-01-01 00:00", Value: 12.5},
		{Index: 2, Timestamp: "2024-01-01 00:15", Value: -3.75},
	}

	require.NoError(t, WriteSeriesCSV(path, s))
	got, err := LoadSeriesCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, s[0].Index, got[0].Index)
	assert.Equal(t, s[1].Timestamp, got[1].Timestamp)
	assert.InDelta(t, s[0].Value, got[0].Value, 1e-9)
	assert.InDelta(t, s[1].Value, got[1].Value, 1e-9)
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12,5", 12.5},
		{"1.234,56", 1234.56},
		{" 7.25 ", 7.25},
		{"-0,75", -0.75},
		{"42", 42},
	}
	for _, tt := range tests {
		got, err := ParseFloat(tt.in)
		require.NoErrorf(t, err, "input %q", tt.in)
		assert.InDeltaf(t, tt.want, got, 1e-9, "input %q", tt.in)
	}

	_, err := ParseFloat("not-a-number")
	assert.Error(t, err)
}

func TestLoadSeriesDispatch(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "s.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("index;timestamp;value\n1;a;2,5\n"), 0o644))
	jsonPath := filepath.Join(dir, "s.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"index":1,"timestamp":"a","value":2.5}]`), 0o644))

	fromCSV, err := LoadSeries(csvPath)
	require.NoError(t, err)
	fromJSON, err := LoadSeries(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, fromCSV, fromJSON)

	_, err = LoadSeries(filepath.Join(dir, "s.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestLoadSchedule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.csv")
	require.NoError(t, os.WriteFile(path, []byte("index;timestamp;value\n1;a;40\n2;b;-40\n"), 0o644))

	sched, err := LoadSchedule(path)
	require.NoError(t, err)
	require.Len(t, sched, 2)
	assert.InDelta(t, 40.0, sched[0].Value, 1e-9)
	assert.InDelta(t, -40.0, sched[1].Value, 1e-9)
	assert.Zero(t, sched[0].SoC, "SoC is computed downstream")
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, WriteJSON(path, map[string]int{"a": 1}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"a": 1`)
}
