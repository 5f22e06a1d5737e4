package middleware

import (
	"strconv"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records latency and count per route template, so /artist/show/:id
// is one series no matter how many listings exist.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := []string{c.Request.Method, route, strconv.Itoa(c.Writer.Status())}

		metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
	}
}
