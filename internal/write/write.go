// Package write serializes query results to CSV, JSON or YAML files.
package write

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/star/neoscope/internal/neo"
)

// ErrUnsupportedFormat is returned for output paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Header is the CSV column order.
var Header = []string{
	"datetime_utc", "distance_au", "velocity_km_s",
	"designation", "name", "diameter_km", "potentially_hazardous",
}

// Format is an output file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFor picks the format from the path's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Write streams results to path in the format implied by its extension and
// returns the number of records written.
func Write(path string, results iter.Seq[*neo.CloseApproach]) (int, error) {
	format, err := FormatFor(path)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating output file: %w", err)
	}

	n, err := To(f, format, results)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing output file: %w", cerr)
	}
	return n, err
}

// To writes results to w in the given format.
func To(w io.Writer, format Format, results iter.Seq[*neo.CloseApproach]) (int, error) {
	switch format {
	case CSV:
		return writeCSV(w, results)
	case JSON:
		return writeJSON(w, results)
	case YAML:
		return writeYAML(w, results)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Record is the serialized shape of one approach and its object.
type Record struct {
	DatetimeUTC string     `json:"datetime_utc" yaml:"datetime_utc"`
	DistanceAU  float64    `json:"distance_au" yaml:"distance_au"`
	VelocityKmS float64    `json:"velocity_km_s" yaml:"velocity_km_s"`
	NEO         *NEORecord `json:"neo" yaml:"neo"`
}

// NEORecord is the serialized shape of a near-Earth object. Unknown values
// are null.
type NEORecord struct {
	Designation          string   `json:"designation" yaml:"designation"`
	Name                 *string  `json:"name" yaml:"name"`
	DiameterKm           *float64 `json:"diameter_km" yaml:"diameter_km"`
	PotentiallyHazardous bool     `json:"potentially_hazardous" yaml:"potentially_hazardous"`
}

// NewRecord converts an approach. Unlinked approaches have a nil NEO.
func NewRecord(a *neo.CloseApproach) Record {
	r := Record{
		DatetimeUTC: a.TimeString(),
		DistanceAU:  a.Distance,
		VelocityKmS: a.Velocity,
	}
	if a.NEO != nil {
		r.NEO = &NEORecord{
			Designation:          a.NEO.Designation,
			Name:                 a.NEO.Name,
			PotentiallyHazardous: a.NEO.Hazardous,
		}
		if !math.IsNaN(a.NEO.Diameter) {
			d := a.NEO.Diameter
			r.NEO.DiameterKm = &d
		}
	}
	return r
}

func writeCSV(w io.Writer, results iter.Seq[*neo.CloseApproach]) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("writing CSV header: %w", err)
	}

	n := 0
	row := make([]string, len(Header))
	for a := range results {
		row[0] = a.TimeString()
		row[1] = formatFloat(a.Distance)
		row[2] = formatFloat(a.Velocity)
		row[3] = a.Designation
		row[4], row[5], row[6] = "", "", ""
		if a.NEO != nil {
			row[3] = a.NEO.Designation
			if a.NEO.Name != nil {
				row[4] = *a.NEO.Name
			}
			if !math.IsNaN(a.NEO.Diameter) {
				row[5] = formatFloat(a.NEO.Diameter)
			}
			row[6] = strconv.FormatBool(a.NEO.Hazardous)
		}
		if err := cw.Write(row); err != nil {
			return n, fmt.Errorf("writing CSV row: %w", err)
		}
		n++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, fmt.Errorf("flushing CSV: %w", err)
	}
	return n, nil
}

func writeJSON(w io.Writer, results iter.Seq[*neo.CloseApproach]) (int, error) {
	records := []Record{}
	for a := range results {
		records = append(records, NewRecord(a))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return 0, fmt.Errorf("encoding JSON: %w", err)
	}
	return len(records), nil
}

func writeYAML(w io.Writer, results iter.Seq[*neo.CloseApproach]) (int, error) {
	records := []Record{}
	for a := range results {
		records = append(records, NewRecord(a))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return 0, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("closing YAML encoder: %w", err)
	}
	return len(records), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
