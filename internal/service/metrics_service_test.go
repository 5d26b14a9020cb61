package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest("GET", "/uczniowie", 200, 20*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/uczniowie", 200, 40*time.Millisecond)
	m.ObserveDBQuery("students.roster", 10*time.Millisecond)
	m.RecordWebhook(JobTypeBooking, true)
	m.RecordWebhook(JobTypeCancellation, false)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 30, snap.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snap.DBQueryCount)
	assert.InDelta(t, 10, snap.AverageDBQueryDurationMs, 0.001)
	assert.Equal(t, uint64(1), snap.WebhooksDelivered)
	assert.Equal(t, uint64(1), snap.WebhooksFailed)
	assert.Positive(t, snap.Goroutines)
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.RecordWebhook(JobTypeBooking, true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `korepetycje_webhook_deliveries_total{kind="webhook.booking",outcome="delivered"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
	m.RecordWebhook(JobTypeBooking, true)
	assert.Zero(t, m.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
