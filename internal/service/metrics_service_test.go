package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univisa-api/internal/models"
)

func TestMetricsServiceRecordsRiskEvaluation(t *testing.T) {
	m := NewMetricsService()
	m.RecordRiskEvaluation(models.RiskOutput{
		RiskLevel: models.RiskLevelHigh,
		Flags: []models.RiskFlag{
			{Category: models.CategoryEnrollmentViolation, Severity: models.SeverityHigh},
			{Category: models.CategoryInternationalTravel, Severity: models.SeverityMedium},
		},
	})

	assert.Equal(t, uint64(1), m.Snapshot().RiskEvaluations)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			if metric.GetCounter() != nil {
				counts[family.GetName()] += metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, counts["risk_evaluations_total"])
	assert.Equal(t, 2.0, counts["risk_flags_total"])
}

func TestMetricsServiceCacheRatio(t *testing.T) {
	m := NewMetricsService()
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
	assert.InDelta(t, 2.0/3.0, snap.CacheHitRatio, 0.0001)
}

func TestMetricsServiceHandlerExposesCounters(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/student/:id/risk", http.StatusOK, 5*time.Millisecond)
	m.RecordChat("answered")
	m.RecordJob("export", "succeeded")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `chat_requests_total{outcome="answered"} 1`)
	assert.Contains(t, body, `background_jobs_total{status="succeeded",type="export"} 1`)
	assert.Contains(t, body, "http_requests_total")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordRiskEvaluation(models.RiskOutput{})
	m.RecordChat("answered")
	assert.Equal(t, models.SystemMetrics{}, m.Snapshot())

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
