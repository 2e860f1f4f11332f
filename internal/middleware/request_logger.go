package middleware

import (
	"time"

	"fairpass/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestIdHeader = "X-Request-Id"

// RequestLogger tags each request with an id and logs one line when it completes.
// Only the route template is logged, never the raw path, so nullifiers in URLs stay out of the logs.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestId := c.GetHeader(RequestIdHeader)
		if _, err := uuid.Parse(requestId); err != nil {
			requestId = uuid.NewString()
		}
		c.Header(RequestIdHeader, requestId)

		c.Next()

		status := c.Writer.Status()
		level := zerolog.InfoLevel
		switch {
		case status >= 500:
			level = zerolog.ErrorLevel
		case status >= 400:
			level = zerolog.WarnLevel
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ev := log.Event(level).
			Str("request_id", requestId).
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("latency", time.Since(start))
		if code, ok := c.Get(ReasonCodeKey); ok {
			ev = ev.Interface("reason", code)
		}
		ev.Msg("request handled")
	}
}
