package write

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/star/neoscope/internal/neo"
)

func testResults() []*neo.CloseApproach {
	eros := neo.NewNearEarthObject("433", "Eros", 16.84, false)
	unnamed := neo.NewNearEarthObject("2020 AB", "", math.NaN(), true)
	return []*neo.CloseApproach{
		{Designation: "433", Time: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), Distance: 0.3, Velocity: 5.1, NEO: eros},
		{Designation: "2020 AB", Time: time.Date(2020, 1, 2, 6, 30, 0, 0, time.UTC), Distance: 0.01, Velocity: 12, NEO: unnamed},
		{Designation: "LEGACY-1", Time: time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), Distance: 0.05, Velocity: 9},
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "out.csv", want: CSV},
		{path: "dir/OUT.JSON", want: JSON},
		{path: "out.yaml", want: YAML},
		{path: "out.yml", want: YAML},
		{path: "out.txt", wantErr: true},
		{path: "out", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := To(&buf, CSV, slices.Values(testResults()))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		Header,
		{"2020-05-01 00:00", "0.3", "5.1", "433", "Eros", "16.84", "false"},
		{"2020-01-02 06:30", "0.01", "12", "2020 AB", "", "", "true"},
		{"2000-01-01 12:00", "0.05", "9", "LEGACY-1", "", "", ""},
	}, rows)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	n, err := To(&buf, JSON, slices.Values(testResults()))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)

	assert.Equal(t, "2020-05-01 00:00", got[0]["datetime_utc"])
	assert.Equal(t, map[string]any{
		"designation":           "433",
		"name":                  "Eros",
		"diameter_km":           16.84,
		"potentially_hazardous": false,
	}, got[0]["neo"])

	unnamed := got[1]["neo"].(map[string]any)
	assert.Nil(t, unnamed["name"])
	assert.Nil(t, unnamed["diameter_km"])

	assert.Nil(t, got[2]["neo"])
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := To(&buf, JSON, slices.Values([]*neo.CloseApproach{}))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.JSONEq(t, "[]", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	n, err := To(&buf, YAML, slices.Values(testResults()))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var got []Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	require.NotNil(t, got[0].NEO)
	assert.Equal(t, "433", got[0].NEO.Designation)
	require.NotNil(t, got[0].NEO.DiameterKm)
	assert.InDelta(t, 16.84, *got[0].NEO.DiameterKm, 1e-9)
	assert.Nil(t, got[1].NEO.Name)
	assert.Nil(t, got[2].NEO)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"out.csv", "out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			n, err := Write(path, slices.Values(testResults()))
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestWriteFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	_, err := Write(path, slices.Values(testResults()))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be created for an unsupported format")
}
