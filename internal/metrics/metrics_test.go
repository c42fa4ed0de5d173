package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ObserveHTTP("/api/heatmap-data", 200, 5*time.Millisecond)
	m.ObserveHTTP("/api/heatmap-data", 200, 7*time.Millisecond)
	m.ObserveHTTP("/api/heatmap-data", 400, time.Millisecond)
	m.SimulationTick(10*time.Millisecond, 3060)
	m.PublishError("kafka")
	m.Export("csv")

	body := scrape(t, m)
	assert.Contains(t, body, `dcmonitor_http_requests_total{route="/api/heatmap-data",status="200"} 2`)
	assert.Contains(t, body, `dcmonitor_http_requests_total{route="/api/heatmap-data",status="400"} 1`)
	assert.Contains(t, body, "dcmonitor_simulation_ticks_total 1")
	assert.Contains(t, body, "dcmonitor_simulation_sensors 3060")
	assert.Contains(t, body, `dcmonitor_publish_errors_total{publisher="kafka"} 1`)
	assert.Contains(t, body, `dcmonitor_exports_total{format="csv"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("/", 200, time.Millisecond)
		m.SimulationTick(time.Millisecond, 1)
		m.PublishError("mqtt")
		m.Export("xlsx")
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
