package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sisvisitas-api/internal/models"
)

// Visit events counted by RecordVisitEvent.
const (
	VisitEventCheckin  = "checkin"
	VisitEventCheckout = "checkout"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	visitEvents     *prometheus.CounterVec
	auditRecorded   prometheus.Counter
	auditFailures   *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec

	requestCount         uint64
	requestDurationTotal uint64
	checkinCount         uint64
	checkoutCount        uint64
	auditCount           uint64
	auditFailureCount    uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	visitEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "visit_events_total",
		Help: "Visit ledger transitions by event",
	}, []string{"event"})

	auditRecorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_records_total",
		Help: "Audit entries persisted",
	})

	auditFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_failures_total",
		Help: "Audit entries dropped by failure reason",
	}, []string{"reason"})

	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "document_render_duration_seconds",
		Help:    "Time spent rendering badges and reports",
		Buckets: prometheus.DefBuckets,
	}, []string{"document"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, visitEvents, auditRecorded, auditFailures, renderDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		visitEvents:     visitEvents,
		auditRecorded:   auditRecorded,
		auditFailures:   auditFailures,
		renderDuration:  renderDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordVisitEvent counts a check-in or check-out.
func (m *MetricsService) RecordVisitEvent(event string) {
	if m == nil {
		return
	}
	m.visitEvents.WithLabelValues(event).Inc()
	switch event {
	case VisitEventCheckin:
		atomic.AddUint64(&m.checkinCount, 1)
	case VisitEventCheckout:
		atomic.AddUint64(&m.checkoutCount, 1)
	}
}

// RecordAudit counts a persisted audit entry.
func (m *MetricsService) RecordAudit() {
	if m == nil {
		return
	}
	m.auditRecorded.Inc()
	atomic.AddUint64(&m.auditCount, 1)
}

// RecordAuditFailure counts an audit entry that could not be stored.
func (m *MetricsService) RecordAuditFailure(reason string) {
	if m == nil {
		return
	}
	m.auditFailures.WithLabelValues(reason).Inc()
	atomic.AddUint64(&m.auditFailureCount, 1)
}

// ObserveRender records document rendering time.
func (m *MetricsService) ObserveRender(document string, duration time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(document).Observe(duration.Seconds())
}

// Snapshot returns aggregated metrics suitable for the health endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		VisitCheckins:            atomic.LoadUint64(&m.checkinCount),
		VisitCheckouts:           atomic.LoadUint64(&m.checkoutCount),
		AuditRecorded:            atomic.LoadUint64(&m.auditCount),
		AuditFailures:            atomic.LoadUint64(&m.auditFailureCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
