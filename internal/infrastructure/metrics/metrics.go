package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances (tests, CLI) never
// collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	TasksCreated   prometheus.Counter
	IntakeRejected *prometheus.CounterVec
	IntakeFailed   prometheus.Counter
	NotifyFailed   *prometheus.CounterVec
	TasksCompleted prometheus.Counter
	RequestsTotal  *prometheus.CounterVec
	RequestSeconds *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		TasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "followup_tasks_created_total",
			Help: "Tasks recorded by intake",
		}),
		IntakeRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "followup_intake_rejected_total",
			Help: "Intake requests rejected by validation",
		}, []string{"reason"}),
		IntakeFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "followup_intake_failed_total",
			Help: "Intake requests that failed to persist",
		}),
		NotifyFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "followup_notify_failed_total",
			Help: "Best-effort notifications that could not be published",
		}, []string{"event"}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "followup_tasks_completed_total",
			Help: "Tasks marked complete from the today view",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.3, 1, 3},
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.TasksCreated,
		m.IntakeRejected,
		m.IntakeFailed,
		m.NotifyFailed,
		m.TasksCompleted,
		m.RequestsTotal,
		m.RequestSeconds,
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestSeconds.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
