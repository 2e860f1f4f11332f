package logger

import (
	"strings"

	"github.com/rs/zerolog"
)

type LoggerConfigJson struct {
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`
}

type LoggerConfig struct {
	LogLevel zerolog.Level
}

// ConvertToDomain falls back to info for an empty or unknown level.
func (lcj LoggerConfigJson) ConvertToDomain() LoggerConfig {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(lcj.LogLevel)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return LoggerConfig{LogLevel: level}
}
