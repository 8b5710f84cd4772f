package httpapi

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vitalvas/kasper/mux"

	"github.com/truespec/truespec/differ"
)

// Metrics collects the adapter's operational metrics on a private registry
// so tests can construct servers without collector collisions.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	diffsTotal      prometheus.Counter
	findingsTotal   *prometheus.CounterVec
	storeFailures   prometheus.Counter
}

// NewMetrics creates the adapter metric set.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "truespec",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
		diffsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "truespec",
			Name:      "diffs_total",
			Help:      "Number of diff computations served.",
		}),
		findingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "truespec",
			Name:      "findings_total",
			Help:      "Findings produced, by severity.",
		}, []string{"severity"}),
		storeFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "truespec",
			Subsystem: "store",
			Name:      "failures_total",
			Help:      "Report store operations that failed.",
		}),
	}
}

// Handler serves the metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDiff records one diff run and its finding counts.
func (m *Metrics) ObserveDiff(rep *differ.Report) {
	m.diffsTotal.Inc()
	m.findingsTotal.WithLabelValues("breaking").Add(float64(rep.Summary.Breaking))
	m.findingsTotal.WithLabelValues("warning").Add(float64(rep.Summary.Warning))
	m.findingsTotal.WithLabelValues("info").Add(float64(rep.Summary.Info))
}

// RecordStoreFailure counts a failed store operation.
func (m *Metrics) RecordStoreFailure() {
	m.storeFailures.Inc()
}

// Middleware instruments every request with a latency observation.
func (m *Metrics) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			timer := prometheus.NewTimer(prometheus.ObserverFunc(func(seconds float64) {
				m.requestDuration.WithLabelValues(r.Method, strconv.Itoa(recorder.status)).Observe(seconds)
			}))
			defer timer.ObserveDuration()
			next.ServeHTTP(recorder, r)
		})
	}
}

// statusRecorder captures the response status for the latency label.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
