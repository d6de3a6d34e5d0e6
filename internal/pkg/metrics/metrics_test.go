package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetrics_DomainCounters(t *testing.T) {
	m := New()

	m.PipelineRun("week")
	m.Anomaly("unmatched_clock_out")
	m.Anomaly("unmatched_clock_out")
	m.Correction()
	m.AutoClockOuts(3)
	m.Punch("in")

	body := scrape(t, m)
	assert.Contains(t, body, `timecard_pipeline_runs_total{window="week"} 1`)
	assert.Contains(t, body, `timecard_anomalies_total{kind="unmatched_clock_out"} 2`)
	assert.Contains(t, body, "timecard_corrections_total 1")
	assert.Contains(t, body, "timecard_auto_clock_outs_total 3")
	assert.Contains(t, body, `timecard_punches_total{type="in"} 1`)
}

func TestMetrics_MiddlewareRecordsRequest(t *testing.T) {
	m := New()

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, m)
	assert.Contains(t, body, `timecard_http_requests_total{code="418",route="/test"} 1`)
	assert.Contains(t, body, `timecard_http_request_duration_seconds_bucket{route="/test"`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.PipelineRun("week")
		m.Anomaly("auto_clock_out")
		m.Correction()
		m.AutoClockOuts(1)
		m.Punch("out")
	})

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
