package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/korepetycje-admin/internal/service"
)

// unmatchedRoute labels requests no route matched, keeping scanners and
// typos from growing the path label set.
const unmatchedRoute = "unmatched"

// Metrics records request counts and latency per route pattern. Routes listed
// in skip are not counted.
func Metrics(metricsSvc *service.MetricsService, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if _, ok := skipped[path]; ok {
			return
		}
		if path == "" {
			path = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
