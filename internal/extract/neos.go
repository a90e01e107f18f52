package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/star/neoscope/internal/neo"
)

// LoadNEOs reads a NEO catalog CSV file.
func LoadNEOs(path string, logger *slog.Logger) ([]*neo.NearEarthObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening NEO catalog: %w", err)
	}
	defer f.Close()

	neos, err := ParseNEOs(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return neos, nil
}

// ParseNEOs reads NEO catalog rows from r. The first row is a header; the
// pdes, name, diameter and pha columns are located by name. Rows that fail
// to parse or validate are skipped with a warning log.
func ParseNEOs(r io.Reader, logger *slog.Logger) ([]*neo.NearEarthObject, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading NEO header: %w", err)
	}
	wanted := []string{"pdes", "name", "diameter", "pha"}
	cols, err := columnIndex(header, wanted...)
	if err != nil {
		return nil, err
	}
	width := 0
	for _, name := range wanted {
		width = max(width, cols[name]+1)
	}

	var neos []*neo.NearEarthObject
	skipped := 0
	for row := 1; ; row++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.Warn("skipping unparseable NEO row", "row", row, "error", err)
				skipped++
				continue
			}
			return nil, fmt.Errorf("reading NEO rows: %w", err)
		}
		if len(rec) < width {
			logger.Warn("skipping short NEO row", "row", row, "fields", len(rec))
			skipped++
			continue
		}

		obj := neo.NewNearEarthObject(
			strings.TrimSpace(rec[cols["pdes"]]),
			strings.TrimSpace(rec[cols["name"]]),
			parseDiameter(rec[cols["diameter"]]),
			strings.TrimSpace(rec[cols["pha"]]) == "Y",
		)
		if err := checkRecord(obj); err != nil {
			logger.Warn("skipping invalid NEO row", "row", row, "error", err)
			skipped++
			continue
		}
		neos = append(neos, obj)
	}

	logger.Debug("parsed NEO catalog", "count", len(neos), "skipped", skipped)
	return neos, nil
}

// parseDiameter returns NaN for empty or unparseable values.
func parseDiameter(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return d
}
