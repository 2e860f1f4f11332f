package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fairpass/internal/auth"
	"fairpass/internal/ratelimit"
	"fairpass/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.POST("/v1/events/:eventId/approve", chain...)
	return engine
}

func do(engine *gin.Engine, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/events/concert/approve", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestOrganizerAuth(t *testing.T) {
	cfg := auth.AuthConfig{OrganizerSecret: testSecret}
	engine := newEngine(OrganizerAuth(cfg, logger.Nop()))

	scoped, err := auth.IssueOrganizerToken(testSecret, "alice", []string{"concert"}, time.Hour)
	require.NoError(t, err)
	other, err := auth.IssueOrganizerToken(testSecret, "bob", []string{"festival"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized},
		{"other event", "Bearer " + other, http.StatusForbidden},
		{"valid", "Bearer " + scoped, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(engine, "Authorization", tt.header)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"error":"Unauthorized"`)
			}
		})
	}
}

func TestOrganizerAuthDisabled(t *testing.T) {
	engine := newEngine(OrganizerAuth(auth.AuthConfig{}, logger.Nop()))
	assert.Equal(t, http.StatusOK, do(engine, "", "").Code)
}

func TestOrganizerFrom(t *testing.T) {
	cfg := auth.AuthConfig{OrganizerSecret: testSecret}
	token, err := auth.IssueOrganizerToken(testSecret, "alice", []string{auth.AllEvents}, time.Hour)
	require.NoError(t, err)

	var got auth.Organizer
	engine := newEngine(OrganizerAuth(cfg, logger.Nop()), func(c *gin.Context) {
		got, err = OrganizerFrom(c)
		c.Next()
	})
	rec := do(engine, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Subject)
}

func TestRateLimit(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	limiter := ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{Now: func() time.Time { return now }})
	cfg := ratelimit.RateLimitConfig{Requests: 2, Window: time.Minute}
	engine := newEngine(RateLimit(limiter, cfg, "checkin", logger.Nop()))

	first := do(engine, "", "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, do(engine, "", "").Code)

	limited := do(engine, "", "")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Contains(t, limited.Body.String(), `"error":"RateLimited"`)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string, int, time.Duration) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("redis down")
}

func TestRateLimitFailureMode(t *testing.T) {
	open := newEngine(RateLimit(brokenLimiter{}, ratelimit.RateLimitConfig{Requests: 1, Window: time.Minute}, "checkin", logger.Nop()))
	assert.Equal(t, http.StatusOK, do(open, "", "").Code)

	closed := newEngine(RateLimit(brokenLimiter{}, ratelimit.RateLimitConfig{Requests: 1, Window: time.Minute, FailClosed: true}, "checkin", logger.Nop()))
	assert.Equal(t, http.StatusTooManyRequests, do(closed, "", "").Code)
}

func TestRateLimitDisabled(t *testing.T) {
	engine := newEngine(RateLimit(brokenLimiter{}, ratelimit.RateLimitConfig{}, "checkin", logger.Nop()))
	assert.Equal(t, http.StatusOK, do(engine, "", "").Code)
}

func TestCORS(t *testing.T) {
	cfg := CorsConfigJson{AllowedOrigins: []string{" https://door.example ", ""}}.ConvertToDomain()
	require.Equal(t, []string{"https://door.example"}, cfg.AllowedOrigins)
	engine := newEngine(CORSMiddleware(cfg))

	allowed := do(engine, "Origin", "https://door.example")
	assert.Equal(t, "https://door.example", allowed.Header().Get("Access-Control-Allow-Origin"))

	denied := do(engine, "Origin", "https://evil.example")
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))

	engine.OPTIONS("/v1/events/:eventId/approve", CORSMiddleware(cfg))
	req := httptest.NewRequest(http.MethodOptions, "/v1/events/concert/approve", nil)
	req.Header.Set("Origin", "https://door.example")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New().WithOutput(&buf)
	engine := newEngine(RequestLogger(log), func(c *gin.Context) {
		Abort(c, http.StatusForbidden, "NotApproved", "no")
	})

	rec := do(engine, "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIdHeader))

	line := buf.String()
	assert.Contains(t, line, `"route":"/v1/events/:eventId/approve"`)
	assert.Contains(t, line, `"status":403`)
	assert.Contains(t, line, `"reason":"NotApproved"`)
	assert.NotContains(t, line, "/v1/events/concert")
}
