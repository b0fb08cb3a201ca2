package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// collection pipeline.
type Metrics struct {
	RegionsProcessed  *prometheus.CounterVec // labels: outcome={success,failure}
	FetchErrors       *prometheus.CounterVec // labels: endpoint={hourly,forecast,grid,alerts}
	RecordsAppended   prometheus.Counter
	DuplicatesSkipped prometheus.Counter
	SnapshotResets    prometheus.Counter
	RunDuration       prometheus.Histogram
	CollectorRunning  prometheus.Gauge
	LastRunSuccess    prometheus.Gauge
}

// NewMetrics creates and registers all collector metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RegionsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_collector",
			Name:      "regions_processed_total",
			Help:      "Regions processed per run, by outcome.",
		}, []string{"outcome"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_collector",
			Name:      "fetch_errors_total",
			Help:      "Recovered fetch failures on secondary NWS endpoints.",
		}, []string{"endpoint"}),
		RecordsAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_collector",
			Name:      "records_appended_total",
			Help:      "New records appended to daily datasets.",
		}),
		DuplicatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_collector",
			Name:      "duplicates_skipped_total",
			Help:      "Merges that found the record key already present.",
		}),
		SnapshotResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_collector",
			Name:      "snapshot_resets_total",
			Help:      "Existing dataset objects discarded as empty or corrupt.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_collector",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete all-regions collection run.",
			Buckets:   []float64{1, 5, 10, 15, 20, 30, 45, 60, 120},
		}),
		CollectorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_collector",
			Name:      "running",
			Help:      "1 while a collection run is active, 0 otherwise.",
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_collector",
			Name:      "last_run_success_timestamp_seconds",
			Help:      "Unix time of the last run that persisted at least one region.",
		}),
	}

	prometheus.MustRegister(
		m.RegionsProcessed,
		m.FetchErrors,
		m.RecordsAppended,
		m.DuplicatesSkipped,
		m.SnapshotResets,
		m.RunDuration,
		m.CollectorRunning,
		m.LastRunSuccess,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RegionsProcessed:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_collector", Name: "regions_processed_total"}, []string{"outcome"}),
		FetchErrors:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_collector", Name: "fetch_errors_total"}, []string{"endpoint"}),
		RecordsAppended:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_collector", Name: "records_appended_total"}),
		DuplicatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_collector", Name: "duplicates_skipped_total"}),
		SnapshotResets:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_collector", Name: "snapshot_resets_total"}),
		RunDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_collector", Name: "run_duration_seconds"}),
		CollectorRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_collector", Name: "running"}),
		LastRunSuccess:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_collector", Name: "last_run_success_timestamp_seconds"}),
	}
}
