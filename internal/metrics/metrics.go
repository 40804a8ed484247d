package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skillbridge"

// Metrics owns its registry so tests can build as many as they like.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	authAttempts    *prometheus.CounterVec
	sessionEvents   *prometheus.CounterVec
	redirects       *prometheus.CounterVec
	recommendations prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Mock login and signup attempts by outcome.",
		}, []string{"kind", "outcome"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "events_total",
			Help:      "Session mutations by event.",
		}, []string{"event"}),
		redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "redirects_total",
			Help:      "Views refused for a missing precondition, by requested view and target.",
		}, []string{"view", "redirect"}),
		recommendations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "recommendations",
			Name:      "courses",
			Help:      "Number of courses returned per recommendation request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.authAttempts,
		m.sessionEvents,
		m.redirects,
		m.recommendations,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) AuthAttempt(kind, outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) Redirect(view, redirect string) {
	if m == nil {
		return
	}
	m.redirects.WithLabelValues(view, redirect).Inc()
}

func (m *Metrics) RecommendationsServed(n int) {
	if m == nil {
		return
	}
	m.recommendations.Observe(float64(n))
}

// SessionUpdated counts session mutations; it is registered as a session
// notifier.
func (m *Metrics) SessionUpdated(_ string, event string, _ any) {
	if m == nil {
		return
	}
	m.sessionEvents.WithLabelValues(event).Inc()
}
