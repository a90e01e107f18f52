package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	neosLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "neoscope_neos_loaded",
			Help: "Number of near-Earth objects in the database.",
		},
	)

	approachesLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "neoscope_approaches_loaded",
			Help: "Number of close approaches in the database.",
		},
	)

	approachesUnlinked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "neoscope_approaches_unlinked",
			Help: "Close approaches whose designation matched no near-Earth object.",
		},
	)

	queriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neoscope_queries_total",
			Help: "Total number of queries started.",
		},
	)

	queryScannedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neoscope_query_scanned_total",
			Help: "Close approaches evaluated against query filters.",
		},
	)

	queryMatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neoscope_query_matches_total",
			Help: "Close approaches yielded by queries.",
		},
	)
)

func init() {
	prometheus.MustRegister(neosLoaded)
	prometheus.MustRegister(approachesLoaded)
	prometheus.MustRegister(approachesUnlinked)
	prometheus.MustRegister(queriesTotal)
	prometheus.MustRegister(queryScannedTotal)
	prometheus.MustRegister(queryMatchesTotal)
}

// SetDatasetCounts records the size of a freshly built database.
func SetDatasetCounts(neos, approaches, unlinked int) {
	neosLoaded.Set(float64(neos))
	approachesLoaded.Set(float64(approaches))
	approachesUnlinked.Set(float64(unlinked))
}

// RecordQuery counts a query being started.
func RecordQuery() {
	queriesTotal.Inc()
}

// RecordScanned counts one approach evaluated by a query, and whether it matched.
func RecordScanned(matched bool) {
	queryScannedTotal.Inc()
	if matched {
		queryMatchesTotal.Inc()
	}
}

// WriteTextfile writes all registered metrics to path in the Prometheus text
// format, for pickup by a node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
