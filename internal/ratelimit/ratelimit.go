// Package ratelimit counts requests per key in fixed windows, in memory or in Redis.
package ratelimit

import (
	"context"
	"time"
)

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

type RateLimitConfigJson struct {
	Requests      int    `json:"requests" env:"REQUESTS"`
	WindowSeconds int    `json:"window_seconds" env:"WINDOW_SECONDS"`
	FailClosed    bool   `json:"fail_closed" env:"FAIL_CLOSED"`
	RedisAddr     string `json:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `json:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `json:"redis_db" env:"REDIS_DB"`
}

// RateLimitConfig disables limiting when Requests is zero.
type RateLimitConfig struct {
	Requests      int
	Window        time.Duration
	FailClosed    bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func (rlc RateLimitConfigJson) ConvertToDomain() RateLimitConfig {
	window := time.Duration(rlc.WindowSeconds) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	return RateLimitConfig{
		Requests:      rlc.Requests,
		Window:        window,
		FailClosed:    rlc.FailClosed,
		RedisAddr:     rlc.RedisAddr,
		RedisPassword: rlc.RedisPassword,
		RedisDB:       rlc.RedisDB,
	}
}

// New returns a Redis limiter when an address is configured and a memory limiter otherwise.
func New(cfg RateLimitConfig) (Limiter, error) {
	if cfg.RedisAddr != "" {
		return NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, nil)
	}
	return NewMemoryLimiter(MemoryLimiterConfig{}), nil
}
