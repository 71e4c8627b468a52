package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asistenciafacil/asistencia-api/internal/service"
)

// Metrics records per-request counters and latencies. The route template is
// used as the path label so ids do not explode the cardinality; the scrape
// endpoint itself is not measured.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
