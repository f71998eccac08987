// Package metrics собирает счетчики Prometheus для API, проверок просрочек и напоминаний.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	OverdueScans    prometheus.Counter
	OverdueDates    prometheus.Counter
	RemindersSent   *prometheus.CounterVec
	DocumentsIssued *prometheus.CounterVec
}

// New регистрирует коллекторы в собственном реестре,
// поэтому несколько экземпляров не конфликтуют.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lexdesk_http_requests_total",
			Help: "Number of HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lexdesk_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OverdueScans: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexdesk_overdue_scans_total",
			Help: "Number of per-user overdue scans",
		}),
		OverdueDates: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexdesk_overdue_dates_total",
			Help: "Number of overdue dates found by scans",
		}),
		RemindersSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lexdesk_reminders_total",
			Help: "Overdue reminders by result (sent, failed, skipped)",
		}, []string{"result"}),
		DocumentsIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lexdesk_billing_documents_total",
			Help: "Issued billing documents by kind",
		}, []string{"kind"}),
	}
}

// Handler отдает метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
