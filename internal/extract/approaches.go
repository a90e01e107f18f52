package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/star/neoscope/internal/neo"
)

// CalendarLayout is the close-approach date format used by the CAD API,
// e.g. "2020-Jan-01 12:30".
const CalendarLayout = "2006-Jan-02 15:04"

// cadDocument is the top-level shape of a CAD API response.
type cadDocument struct {
	Fields []string            `json:"fields"`
	Data   [][]json.RawMessage `json:"data"`
}

// LoadApproaches reads a close-approach JSON file.
func LoadApproaches(path string, logger *slog.Logger) ([]*neo.CloseApproach, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening close approach data: %w", err)
	}
	defer f.Close()

	approaches, err := ParseApproaches(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return approaches, nil
}

// ParseApproaches decodes a CAD document from r. The des, cd, dist and v_rel
// columns are located through the document's field list. Rows that fail to
// parse or validate are skipped with a warning log.
func ParseApproaches(r io.Reader, logger *slog.Logger) ([]*neo.CloseApproach, error) {
	var doc cadDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding close approach data: %w", err)
	}
	cols, err := columnIndex(doc.Fields, "des", "cd", "dist", "v_rel")
	if err != nil {
		return nil, err
	}

	approaches := make([]*neo.CloseApproach, 0, len(doc.Data))
	skipped := 0
	for i, row := range doc.Data {
		a, err := parseApproach(row, cols)
		if err == nil {
			err = checkRecord(a)
		}
		if err != nil {
			logger.Warn("skipping invalid close approach", "row", i, "error", err)
			skipped++
			continue
		}
		approaches = append(approaches, a)
	}

	logger.Debug("parsed close approaches", "count", len(approaches), "skipped", skipped)
	return approaches, nil
}

func parseApproach(row []json.RawMessage, cols map[string]int) (*neo.CloseApproach, error) {
	field := func(name string) (string, error) {
		i := cols[name]
		if i >= len(row) {
			return "", fmt.Errorf("row has %d fields, no %q", len(row), name)
		}
		return rawString(row[i])
	}

	des, err := field("des")
	if err != nil {
		return nil, err
	}
	cd, err := field("cd")
	if err != nil {
		return nil, err
	}
	dist, err := field("dist")
	if err != nil {
		return nil, err
	}
	vRel, err := field("v_rel")
	if err != nil {
		return nil, err
	}

	ts, err := ParseCalendarDate(cd)
	if err != nil {
		return nil, err
	}
	distance, err := strconv.ParseFloat(dist, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid dist %q: %w", dist, err)
	}
	velocity, err := strconv.ParseFloat(vRel, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid v_rel %q: %w", vRel, err)
	}

	return &neo.CloseApproach{
		Designation: strings.TrimSpace(des),
		Time:        ts,
		Distance:    distance,
		Velocity:    velocity,
	}, nil
}

// rawString accepts either a JSON string or a bare number.
func rawString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("unexpected value %s", string(raw))
	}
	return n.String(), nil
}

// ParseCalendarDate parses a CAD calendar date such as "2020-Jan-01 12:30"
// as a UTC timestamp.
func ParseCalendarDate(s string) (time.Time, error) {
	t, err := time.Parse(CalendarLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return t, nil
}
