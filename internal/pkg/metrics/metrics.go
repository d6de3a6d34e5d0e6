package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the Prometheus series of the timecard service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	pipelineRuns    *prometheus.CounterVec
	anomalies       *prometheus.CounterVec
	corrections     prometheus.Counter
	autoClockOuts   prometheus.Counter
	punches         *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timecard_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timecard_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	pipelineRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timecard_pipeline_runs_total",
		Help: "Aggregation passes by window kind.",
	}, []string{"window"})
	anomalies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timecard_anomalies_total",
		Help: "Data-integrity anomalies found during aggregation, by kind.",
	}, []string{"kind"})
	corrections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timecard_corrections_total",
		Help: "Manager clock-out corrections written to the store.",
	})
	autoClockOuts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timecard_auto_clock_outs_total",
		Help: "Clock-outs forced by the system for stale shifts.",
	})
	punches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timecard_punches_total",
		Help: "Clock-in and clock-out punches recorded, by type.",
	}, []string{"type"})

	registry.MustRegister(requests, duration, pipelineRuns, anomalies, corrections, autoClockOuts, punches)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		pipelineRuns:    pipelineRuns,
		anomalies:       anomalies,
		corrections:     corrections,
		autoClockOuts:   autoClockOuts,
		punches:         punches,
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records a counter and a latency observation per request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) PipelineRun(window string) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(window).Inc()
}

func (m *Metrics) Anomaly(kind string) {
	if m == nil {
		return
	}
	m.anomalies.WithLabelValues(kind).Inc()
}

func (m *Metrics) Correction() {
	if m == nil {
		return
	}
	m.corrections.Inc()
}

func (m *Metrics) AutoClockOuts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.autoClockOuts.Add(float64(n))
}

func (m *Metrics) Punch(eventType string) {
	if m == nil {
		return
	}
	m.punches.WithLabelValues(eventType).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming responses such as exports working behind the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
