// Package database links a NEO catalog with its close approaches and serves
// identity lookups and filtered queries over the result.
//
// A Database is built once and is read-only afterwards. Queries scan the
// approaches in ingestion order and produce matches on demand, so callers
// that stop early never pay for the rest of the scan.
package database

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/star/neoscope/internal/filters"
	"github.com/star/neoscope/internal/metrics"
	"github.com/star/neoscope/internal/neo"
)

var (
	// ErrDuplicateDesignation is returned by New when two objects share a designation.
	ErrDuplicateDesignation = errors.New("duplicate NEO designation")
	// ErrEmptyDesignation is returned by New when an object has no designation.
	ErrEmptyDesignation = errors.New("empty NEO designation")
)

// Database holds the linked catalog.
type Database struct {
	neos       []*neo.NearEarthObject
	approaches []*neo.CloseApproach

	byDesignation map[string]*neo.NearEarthObject
	byName        map[string]*neo.NearEarthObject

	unlinked int
	logger   *slog.Logger
}

// New indexes neos, links approaches to them and returns the database.
// The records are mutated in place to set their cross-references, and must
// not be modified by the caller afterwards. A nil logger discards output.
func New(neos []*neo.NearEarthObject, approaches []*neo.CloseApproach, logger *slog.Logger) (*Database, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db := &Database{
		neos:          neos,
		approaches:    approaches,
		byDesignation: make(map[string]*neo.NearEarthObject, len(neos)),
		byName:        make(map[string]*neo.NearEarthObject),
		logger:        logger,
	}

	for i, obj := range neos {
		if obj.Designation == "" {
			return nil, fmt.Errorf("record %d: %w", i, ErrEmptyDesignation)
		}
		if _, ok := db.byDesignation[obj.Designation]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDesignation, obj.Designation)
		}
		db.byDesignation[obj.Designation] = obj

		if obj.Name == nil {
			continue
		}
		key := strings.ToLower(*obj.Name)
		if prev, ok := db.byName[key]; ok {
			logger.Warn("NEO name already indexed, keeping first",
				"name", *obj.Name,
				"kept", prev.Designation,
				"ignored", obj.Designation,
			)
			continue
		}
		db.byName[key] = obj
	}

	db.unlinked = link(db.byDesignation, approaches, logger)
	metrics.SetDatasetCounts(len(neos), len(approaches), db.unlinked)

	logger.Info("database built",
		"neos", len(neos),
		"named", len(db.byName),
		"approaches", len(approaches),
		"unlinked", db.unlinked,
	)

	return db, nil
}

// NEOByDesignation returns the object with exactly this designation.
func (db *Database) NEOByDesignation(designation string) (*neo.NearEarthObject, bool) {
	obj, ok := db.byDesignation[designation]
	return obj, ok
}

// NEOByName returns the object with this name, compared case-insensitively.
// Unnamed objects are never returned.
func (db *Database) NEOByName(name string) (*neo.NearEarthObject, bool) {
	obj, ok := db.byName[strings.ToLower(name)]
	return obj, ok
}

// Query returns the approaches matching every filter, in ingestion order.
// Matches are produced lazily; each call to Query starts a fresh scan.
func (db *Database) Query(fs []filters.Filter) iter.Seq[*neo.CloseApproach] {
	return func(yield func(*neo.CloseApproach) bool) {
		metrics.RecordQuery()
		db.logger.Debug("query started", "filters", len(fs), "candidates", len(db.approaches))
		for _, a := range db.approaches {
			matched := filters.All(fs, a)
			metrics.RecordScanned(matched)
			if matched && !yield(a) {
				return
			}
		}
	}
}

// NEOs returns the catalog in ingestion order.
func (db *Database) NEOs() iter.Seq[*neo.NearEarthObject] {
	return func(yield func(*neo.NearEarthObject) bool) {
		for _, obj := range db.neos {
			if !yield(obj) {
				return
			}
		}
	}
}

// TimeRange is the span of approach times in the database.
type TimeRange struct {
	Min time.Time
	Max time.Time
}

// Stats summarizes the database contents.
type Stats struct {
	NEOs       int
	Named      int
	Hazardous  int
	Approaches int
	Unlinked   int
	Times      TimeRange
}

// Stats computes summary counts over the whole database.
func (db *Database) Stats() Stats {
	s := Stats{
		NEOs:       len(db.neos),
		Approaches: len(db.approaches),
		Unlinked:   db.unlinked,
	}
	for _, obj := range db.neos {
		if obj.Name != nil {
			s.Named++
		}
		if obj.Hazardous {
			s.Hazardous++
		}
	}
	if len(db.approaches) > 0 {
		s.Times.Min = db.approaches[0].Time
		s.Times.Max = db.approaches[0].Time
		for _, a := range db.approaches[1:] {
			if a.Time.Before(s.Times.Min) {
				s.Times.Min = a.Time
			}
			if a.Time.After(s.Times.Max) {
				s.Times.Max = a.Time
			}
		}
	}
	return s
}
