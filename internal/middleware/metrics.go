package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univisa-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records request latency and status per route template. Requests that
// match no route share one label so scanners cannot inflate series cardinality.
// Paths in skip (such as the scrape endpoint itself) are not observed.
func Metrics(metricsSvc *service.MetricsService, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		if _, ok := skipped[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
