package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the counters the preview server exposes on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	buildsTotal   *prometheus.CounterVec
	buildDuration prometheus.Histogram
	requestsTotal *prometheus.CounterVec
}

// NewMetrics creates an isolated registry so tests can run several
// servers in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		buildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogsmith_builds_total",
			Help: "Site rebuilds by result.",
		}, []string{"result"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "blogsmith_build_duration_seconds",
			Help:    "Duration of site rebuilds.",
			Buckets: prometheus.DefBuckets,
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogsmith_http_requests_total",
			Help: "HTTP requests served, by status code.",
		}, []string{"code"}),
	}
	m.registry.MustRegister(m.buildsTotal, m.buildDuration, m.requestsTotal)
	return m
}

// ObserveBuild records one rebuild attempt.
func (m *Metrics) ObserveBuild(d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.buildsTotal.WithLabelValues(result).Inc()
	if err == nil {
		m.buildDuration.Observe(d.Seconds())
	}
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// countingWriter captures the response code for the request counter.
type countingWriter struct {
	http.ResponseWriter
	code int
}

func (cw *countingWriter) WriteHeader(code int) {
	cw.code = code
	cw.ResponseWriter.WriteHeader(code)
}

func (m *Metrics) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &countingWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(cw, r)
		m.requestsTotal.WithLabelValues(strconv.Itoa(cw.code)).Inc()
	})
}
