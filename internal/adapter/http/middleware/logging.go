package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"usergraph/pkg/tracing"
)

// Logging emits one structured line per request, correlated with the
// request id and the active trace.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", c.GetString("request_id")).
			Str("trace_id", tracing.GetTraceID(c.Request.Context())).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}
