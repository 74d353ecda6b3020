package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for visualization runs.
type Metrics struct {
	RunsTotal      prometheus.Counter
	RunErrorsTotal prometheus.Counter

	// Dataset metrics.
	RowsParsedTotal  prometheus.Counter
	RowsSkippedTotal prometheus.Counter

	// Per-run pipeline metrics.
	RegionsDroppedTotal prometheus.Counter
	FramesRenderedTotal prometheus.Counter
	RunDuration         prometheus.Histogram
	GIFBytes            prometheus.Histogram

	RegionSelectedTotal *prometheus.CounterVec // label: region (canonical name)
}

// NewMetrics creates and registers all run metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_motion",
			Name:      "runs_total",
			Help:      "Total visualization runs attempted.",
		}),
		RunErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_motion",
			Name:      "run_errors_total",
			Help:      "Total runs that failed with a user-facing error.",
		}),
		RowsParsedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_motion",
			Name:      "rows_parsed_total",
			Help:      "Total spreadsheet rows accepted across all uploads.",
		}),
		RowsSkippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_motion",
			Name:      "rows_skipped_total",
			Help:      "Total spreadsheet rows dropped for bad cells.",
		}),
		RegionsDroppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_motion",
			Name:      "regions_dropped_total",
			Help:      "Selected regions dropped for missing calibration or data.",
		}),
		FramesRenderedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_motion",
			Name:      "frames_rendered_total",
			Help:      "Total animation frames rendered.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar_motion",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete parse-compute-render-encode run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		GIFBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar_motion",
			Name:      "gif_bytes",
			Help:      "Size of encoded animations in bytes.",
			Buckets:   prometheus.ExponentialBuckets(64<<10, 2, 10),
		}),
		RegionSelectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_motion",
			Name:      "region_selected_total",
			Help:      "How often each region was part of a run's selection.",
		}, []string{"region"}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunErrorsTotal,
		m.RowsParsedTotal,
		m.RowsSkippedTotal,
		m.RegionsDroppedTotal,
		m.FramesRenderedTotal,
		m.RunDuration,
		m.GIFBytes,
		m.RegionSelectedTotal,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "solar_motion", Name: "runs_total"}),
		RunErrorsTotal:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "solar_motion", Name: "run_errors_total"}),
		RowsParsedTotal:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "solar_motion", Name: "rows_parsed_total"}),
		RowsSkippedTotal:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "solar_motion", Name: "rows_skipped_total"}),
		RegionsDroppedTotal: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "solar_motion", Name: "regions_dropped_total"}),
		FramesRenderedTotal: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "solar_motion", Name: "frames_rendered_total"}),
		RunDuration:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "solar_motion", Name: "run_duration_seconds"}),
		GIFBytes:            prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "solar_motion", Name: "gif_bytes"}),
		RegionSelectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "solar_motion", Name: "region_selected_total"}, []string{"region"}),
	}
}
