// Package metrics exposes Prometheus counters for the HTTP API and the
// notification dispatcher on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	notifications *prometheus.CounterVec
	ledgerEvents  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "udhar",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "udhar",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "udhar",
			Name:      "notifications_total",
			Help:      "Notification attempts by channel and outcome.",
		}, []string{"channel", "delivered"}),
		ledgerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "udhar",
			Name:      "ledger_events_total",
			Help:      "Loan lifecycle events: submitted, approved, rejected, payment.",
		}, []string{"event"}),
	}
	m.registry.MustRegister(
		m.requests, m.latency, m.notifications, m.ledgerEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Notification(channel string, delivered bool) {
	m.notifications.WithLabelValues(channel, strconv.FormatBool(delivered)).Inc()
}

func (m *Metrics) NotificationCount(channel string, delivered bool) float64 {
	return counterValue(m.notifications.WithLabelValues(channel, strconv.FormatBool(delivered)))
}

func (m *Metrics) LedgerEvent(event string) { m.ledgerEvents.WithLabelValues(event).Inc() }

func (m *Metrics) LedgerEventCount(event string) float64 {
	return counterValue(m.ledgerEvents.WithLabelValues(event))
}

// Middleware records one sample per request, labelled by route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.requests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.latency.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) RequestCount(method, route string, status int) float64 {
	return counterValue(m.requests.WithLabelValues(method, route, strconv.Itoa(status)))
}

func counterValue(c prometheus.Counter) float64 {
	var pb dto.Metric
	if err := c.Write(&pb); err != nil {
		return 0
	}
	return pb.GetCounter().GetValue()
}
