// Package metrics exposes Prometheus instruments for timeline computation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// layoutTotal counts layout computations by granularity and result
	layoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ganttline_layout_total",
		Help: "Total timeline layout computations by granularity and result",
	}, []string{"granularity", "result"})

	// layoutDuration tracks layout latency
	layoutDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ganttline_layout_duration_seconds",
		Help:    "Timeline layout duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14), // 10us to ~80ms
	}, []string{"granularity"})

	// layoutBuckets tracks the number of buckets per computed layout
	layoutBuckets = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ganttline_layout_buckets",
		Help:    "Number of timeline buckets per computed layout",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"granularity"})

	// layoutCache counts memoised layout lookups by outcome
	layoutCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ganttline_layout_cache_total",
		Help: "Layout cache lookups by outcome (hit, miss)",
	}, []string{"outcome"})

	// spanWarnings counts projects found outside their computed timeline
	spanWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ganttline_span_warnings_total",
		Help: "Projects whose dates fell outside the generated timeline",
	})
)

// ObserveLayout records one layout computation.
func ObserveLayout(granularity string, buckets int, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	layoutTotal.WithLabelValues(granularity, result).Inc()
	layoutDuration.WithLabelValues(granularity).Observe(elapsed.Seconds())
	if err == nil {
		layoutBuckets.WithLabelValues(granularity).Observe(float64(buckets))
	}
}

// CacheHit records a memoised layout being reused.
func CacheHit() {
	layoutCache.WithLabelValues("hit").Inc()
}

// CacheMiss records a layout that had to be computed.
func CacheMiss() {
	layoutCache.WithLabelValues("miss").Inc()
}

// SpanWarning records a project positioned by fallback.
func SpanWarning() {
	spanWarnings.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
