package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshotAndExposition(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/visits/active", http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/visits", http.StatusCreated, 40*time.Millisecond)
	m.RecordVisitEvent(VisitEventCheckin)
	m.RecordVisitEvent(VisitEventCheckout)
	m.RecordAudit()
	m.RecordAuditFailure("storage")
	m.ObserveRender("badge", 5*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 30, snap.AverageRequestDurationMs, 0.01)
	assert.Equal(t, uint64(1), snap.VisitCheckins)
	assert.Equal(t, uint64(1), snap.VisitCheckouts)
	assert.Equal(t, uint64(1), snap.AuditRecorded)
	assert.Equal(t, uint64(1), snap.AuditFailures)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `visit_events_total{event="checkin"} 1`)
	assert.Contains(t, string(body), `audit_failures_total{reason="storage"} 1`)
	assert.Contains(t, string(body), "document_render_duration_seconds")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.RecordVisitEvent(VisitEventCheckin)
		m.RecordAudit()
		m.RecordAuditFailure("panic")
		m.ObserveRender("report_pdf", time.Millisecond)
	})
	assert.Equal(t, uint64(0), m.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
