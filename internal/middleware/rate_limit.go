package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fairpass/internal/ratelimit"
	"fairpass/pkg/logger"
	reasoncodes "fairpass/pkg/reason_codes"

	"github.com/gin-gonic/gin"
)

// RateLimit caps requests per client IP and route. A zero request budget disables it.
func RateLimit(limiter ratelimit.Limiter, cfg ratelimit.RateLimitConfig, routeId string, log *logger.Logger) gin.HandlerFunc {
	if limiter == nil || cfg.Requests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("route:%s:ip:%s", routeId, c.ClientIP())

		decision, err := limiter.Allow(c.Request.Context(), key, cfg.Requests, cfg.Window)
		if err != nil {
			log.Error(err, "rate limiter unavailable")
			if cfg.FailClosed {
				Abort(c, http.StatusTooManyRequests, reasoncodes.ErrRateLimited, "rate limiter unavailable")
				return
			}
			c.Next()
			return
		}

		writeRateLimitHeaders(c, decision)
		if !decision.Allowed {
			Abort(c, http.StatusTooManyRequests, reasoncodes.ErrRateLimited, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

func writeRateLimitHeaders(c *gin.Context, decision ratelimit.Decision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}
