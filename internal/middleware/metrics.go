package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pulsefit/studio-scheduler-api/internal/service"
)

// Metrics returns middleware that records per-route request metrics. The
// scrape endpoint itself is not measured.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}
