package rabbitmq

import (
	"context"
	"time"

	"fairpass/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const maxConnectRetries = 7

// WorkerService is a long running background job started next to the HTTP server.
type WorkerService interface {
	GetServiceName() string
	StartService(ctx context.Context)
}

func ConnectionURL(cfg RabbitmqConfig) string {
	return amqp.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		Password: cfg.Password,
		Vhost:    cfg.VHost,
	}.String()
}

// ConnectToRabbitmq dials the broker, backing off exponentially between attempts.
func ConnectToRabbitmq(cfg RabbitmqConfig, log *logger.Logger) (*amqp.Connection, error) {
	var (
		conn     *amqp.Connection
		err      error
		waitTime = time.Second
	)

	for i := 0; i < maxConnectRetries; i++ {
		conn, err = amqp.Dial(ConnectionURL(cfg))
		if err == nil {
			return conn, nil
		}
		log.Warnf("Attempt %d failed: %v. Retrying in %v...", i+1, err, waitTime)
		time.Sleep(waitTime)
		waitTime *= 2
	}
	return nil, err
}
