package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univisa-api/internal/service"
	"github.com/noah-isme/univisa-api/pkg/jobs"
	"github.com/noah-isme/univisa-api/pkg/response"
)

// ReadinessCheck pings one dependency.
type ReadinessCheck func(ctx context.Context) error

type queueStatter interface {
	Stats() jobs.Stats
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	checks  map[string]ReadinessCheck
	queues  map[string]queueStatter
	timeout time.Duration
}

// NewMetricsHandler constructs a metrics handler. Nil checks are ignored.
func NewMetricsHandler(metrics *service.MetricsService, checks map[string]ReadinessCheck) *MetricsHandler {
	active := make(map[string]ReadinessCheck, len(checks))
	for name, check := range checks {
		if check != nil {
			active[name] = check
		}
	}
	return &MetricsHandler{metrics: metrics, checks: active, queues: map[string]queueStatter{}, timeout: 2 * time.Second}
}

// WatchQueue adds a background queue's counters to the DSO snapshot.
func (h *MetricsHandler) WatchQueue(name string, queue queueStatter) {
	h.queues[name] = queue
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness checks.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready runs every dependency check and reports 503 when any fails.
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	overall := "ready"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	c.JSON(status, gin.H{"status": overall, "checks": results})
}

// Snapshot godoc
// @Summary Aggregated service metrics
// @Tags DSO
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dso/metrics [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	queues := make(map[string]interface{}, len(h.queues))
	for name, q := range h.queues {
		stats := q.Stats()
		queues[name] = gin.H{"processed": stats.Processed, "failed": stats.Failed}
	}
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil, map[string]interface{}{"queues": queues})
}
