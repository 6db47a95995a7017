package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashactl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dashactl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	chartBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashactl",
			Subsystem: "engine",
			Name:      "chart_builds_total",
			Help:      "Dasha chart constructions, by cache outcome.",
		},
		[]string{"node", "outcome"},
	)
	chartBuildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dashactl",
			Subsystem: "engine",
			Name:      "chart_build_duration_seconds",
			Help:      "Dasha tree build duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node"},
	)
	periodQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashactl",
			Subsystem: "engine",
			Name:      "period_queries_total",
			Help:      "Period queries served, by kind and success.",
		},
		[]string{"node", "kind", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, chartBuilds, chartBuildDuration, periodQueries)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordChartBuild(node, outcome string, duration time.Duration) {
	RegisterMetrics()
	chartBuilds.WithLabelValues(node, outcome).Inc()
	if outcome == "built" {
		chartBuildDuration.WithLabelValues(node).Observe(duration.Seconds())
	}
}

func RecordPeriodQuery(node, kind string, success bool) {
	RegisterMetrics()
	periodQueries.WithLabelValues(node, kind, strconv.FormatBool(success)).Inc()
}
