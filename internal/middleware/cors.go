package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type CorsConfigJson struct {
	AllowedOrigins []string `json:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

type CorsConfig struct {
	AllowedOrigins []string
}

func (ccj CorsConfigJson) ConvertToDomain() CorsConfig {
	origins := make([]string, 0, len(ccj.AllowedOrigins))
	for _, o := range ccj.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return CorsConfig{AllowedOrigins: origins}
}

func (cc CorsConfig) allows(origin string) bool {
	for _, o := range cc.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// CORSMiddleware echoes back allowed origins and answers preflight requests.
func CORSMiddleware(cfg CorsConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && cfg.allows(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Snapshot-CID, RateLimit-Limit, RateLimit-Remaining, RateLimit-Reset, Retry-After")
			c.Writer.Header().Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
