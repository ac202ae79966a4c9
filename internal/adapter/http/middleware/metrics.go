package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"usergraph/internal/adapter/telemetry"
)

// Metrics records request count and duration per route and status.
func Metrics(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		metrics.RecordRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
