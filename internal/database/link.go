package database

import (
	"log/slog"

	"github.com/star/neoscope/internal/neo"
)

// link attaches each approach to the object with the same designation and
// appends it to that object's approaches, preserving input order.
// Approaches with no matching object are left unlinked and counted.
func link(byDesignation map[string]*neo.NearEarthObject, approaches []*neo.CloseApproach, logger *slog.Logger) int {
	unlinked := 0
	for _, a := range approaches {
		obj, ok := byDesignation[a.Designation]
		if !ok {
			unlinked++
			logger.Debug("close approach has no matching NEO", "designation", a.Designation, "time", a.TimeString())
			continue
		}
		a.NEO = obj
		obj.Approaches = append(obj.Approaches, a)
	}

	if unlinked > 0 {
		logger.Warn("close approaches left unlinked", "count", unlinked, "total", len(approaches))
	}
	return unlinked
}
