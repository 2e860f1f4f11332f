package main

import (
	"fairpass/internal/admission"
	"fairpass/internal/auth"
	"fairpass/internal/database"
	"fairpass/internal/group"
	"fairpass/internal/middleware"
	"fairpass/internal/ratelimit"
	"fairpass/pkg/logger"
	"fairpass/pkg/rabbitmq"
	"fairpass/pkg/utilities"
)

const (
	AdmissionEventsPublisher rabbitmq.PublisherAlias = "AdmissionEventsPublisher"
	AdmissionAuditConsumer   rabbitmq.ConsumerAlias  = "AdmissionAuditConsumer"
)

type ApiConfigJson struct {
	LoggerConf    logger.LoggerConfigJson       `json:"logger" envPrefix:"LOGGER_"`
	RabbitmqConf  rabbitmq.RabbimqConfigJson    `json:"rabbitmq" envPrefix:"RABBITMQ_"`
	RestConf      ApiRestConfigJson             `json:"rest" envPrefix:"REST_"`
	DatabaseConf  database.DatabaseConfigJson   `json:"database" envPrefix:"DATABASE_"`
	ZkpConf       ApiZkpConfigJson              `json:"zkp" envPrefix:"ZKP_"`
	AuthConf      auth.AuthConfigJson           `json:"auth" envPrefix:"AUTH_"`
	RateLimitConf ratelimit.RateLimitConfigJson `json:"rate_limit" envPrefix:"RATE_LIMIT_"`
	OutboxConf    ApiOutboxConfigJson           `json:"outbox" envPrefix:"OUTBOX_"`
	CorsConf      middleware.CorsConfigJson     `json:"cors" envPrefix:"CORS_"`
}

func (acj ApiConfigJson) ConvertToDomain() ApiConfig {
	return ApiConfig{
		LoggerConf:    acj.LoggerConf.ConvertToDomain(),
		RabbitmqConf:  acj.RabbitmqConf.ConvertToDomain(),
		RestConf:      acj.RestConf.ConvertToDomain(),
		DatabaseConf:  acj.DatabaseConf.ConvertToDomain(),
		ZkpConf:       acj.ZkpConf.ConvertToDomain(),
		AuthConf:      acj.AuthConf.ConvertToDomain(),
		RateLimitConf: acj.RateLimitConf.ConvertToDomain(),
		OutboxConf:    acj.OutboxConf.ConvertToDomain(),
		CorsConf:      acj.CorsConf.ConvertToDomain(),
	}
}

type ApiConfig struct {
	LoggerConf    logger.LoggerConfig
	RabbitmqConf  rabbitmq.RabbitmqConfig
	RestConf      ApiRestConfig
	DatabaseConf  database.DatabaseConfig
	ZkpConf       ApiZkpConfig
	AuthConf      auth.AuthConfig
	RateLimitConf ratelimit.RateLimitConfig
	OutboxConf    ApiOutboxConfig
	CorsConf      middleware.CorsConfig
}

func (ac ApiConfig) GetLoggerConfig() logger.LoggerConfig {
	return ac.LoggerConf
}

func (ac ApiConfig) GetRabbitmqConfig() rabbitmq.RabbitmqConfig {
	return ac.RabbitmqConf
}

func (ac ApiConfig) GetRestApiPort() uint16 {
	return ac.RestConf.Port
}

func (ac ApiConfig) GetDatabaseConfig() database.DatabaseConfig {
	return ac.DatabaseConf
}

type ApiRestConfigJson struct {
	Port uint16 `json:"port" env:"PORT"`
}

type ApiRestConfig struct {
	Port uint16
}

func (arcj ApiRestConfigJson) ConvertToDomain() ApiRestConfig {
	return ApiRestConfig{
		Port: utilities.Ternary(arcj.Port == 0, uint16(9000), arcj.Port),
	}
}

type ApiZkpConfigJson struct {
	Depth       int    `json:"depth" env:"DEPTH"`
	RootHistory int    `json:"root_history" env:"ROOT_HISTORY"`
	KeysDir     string `json:"keys_dir" env:"KEYS_DIR"`
}

type ApiZkpConfig struct {
	Depth       int
	RootHistory int
	KeysDir     string
}

func (azcj ApiZkpConfigJson) ConvertToDomain() ApiZkpConfig {
	return ApiZkpConfig{
		Depth:       utilities.Ternary(azcj.Depth <= 0, admission.DefaultDepth, azcj.Depth),
		RootHistory: utilities.Ternary(azcj.RootHistory <= 0, group.DefaultRootHistory, azcj.RootHistory),
		KeysDir:     utilities.Ternary(azcj.KeysDir == "", "keys", azcj.KeysDir),
	}
}

type ApiOutboxConfigJson struct {
	Schedule  string `json:"schedule" env:"SCHEDULE"`
	BatchSize int    `json:"batch_size" env:"BATCH_SIZE"`
}

type ApiOutboxConfig struct {
	Schedule  string
	BatchSize int
}

func (aocj ApiOutboxConfigJson) ConvertToDomain() ApiOutboxConfig {
	return ApiOutboxConfig{
		Schedule:  aocj.Schedule,
		BatchSize: aocj.BatchSize,
	}
}
