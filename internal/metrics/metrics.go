package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collectors exposed on /metrics. A nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	simTicks          prometheus.Counter
	simTickDuration   prometheus.Histogram
	simSensors        prometheus.Gauge
	publishErrors     *prometheus.CounterVec
	exportsTotal      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dcmonitor_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dcmonitor_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		simTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dcmonitor_simulation_ticks_total",
			Help: "Total simulation ticks applied to the sensor snapshot.",
		}),
		simTickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dcmonitor_simulation_tick_duration_seconds",
			Help:    "Time spent computing, storing and publishing one tick.",
			Buckets: prometheus.DefBuckets,
		}),
		simSensors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dcmonitor_simulation_sensors",
			Help: "Number of sensors in the current snapshot.",
		}),
		publishErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dcmonitor_publish_errors_total",
			Help: "Snapshot publish failures by publisher.",
		}, []string{"publisher"}),
		exportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dcmonitor_exports_total",
			Help: "Sensor exports served by format.",
		}, []string{"format"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.simTicks,
		m.simTickDuration,
		m.simSensors,
		m.publishErrors,
		m.exportsTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) SimulationTick(d time.Duration, sensors int) {
	if m == nil {
		return
	}
	m.simTicks.Inc()
	m.simTickDuration.Observe(d.Seconds())
	m.simSensors.Set(float64(sensors))
}

func (m *Metrics) PublishError(publisher string) {
	if m == nil {
		return
	}
	m.publishErrors.WithLabelValues(publisher).Inc()
}

func (m *Metrics) Export(format string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(format).Inc()
}
