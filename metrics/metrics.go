package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "points",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "points",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "points",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	recordsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "points",
			Subsystem: "records",
			Name:      "submitted_total",
			Help:      "Daily records stored.",
		},
	)

	recordPoints = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "points",
			Subsystem: "records",
			Name:      "total_points",
			Help:      "Points per stored daily record.",
			Buckets:   prometheus.LinearBuckets(0, 1, 9),
		},
	)

	authEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "points",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Register and login attempts by outcome.",
		},
		[]string{"action", "result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		recordsSubmitted,
		recordPoints,
		authEvents,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func InFlightInc() { httpInFlight.Inc() }
func InFlightDec() { httpInFlight.Dec() }

func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordSubmitted(totalPoints int) {
	recordsSubmitted.Inc()
	recordPoints.Observe(float64(totalPoints))
}

func RecordAuthEvent(action string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	authEvents.WithLabelValues(action, result).Inc()
}
