package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/salesmanager/backend/internal/infrastructure/telemetry"
)

// HTTPMetrics records request count and latency per method, route and status.
// Unmatched routes are recorded as "unmatched" to bound cardinality.
func HTTPMetrics(metrics *telemetry.ShopMetrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPServed(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start).Seconds())
	}
}
