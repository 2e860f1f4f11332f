package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fairpass/pkg/utilities"

	amqp "github.com/rabbitmq/amqp091-go"
)

type PublisherAlias string

var (
	PublisherRegistry map[PublisherAlias]IRabbitmqPublisher
	oncePublisher     sync.Once
)

func GetPublisher(alias PublisherAlias) IRabbitmqPublisher {
	return PublisherRegistry[alias]
}

// InitializePublisherRegistry opens one channel per configured publisher and declares its exchange.
func InitializePublisherRegistry(conn *amqp.Connection, publisherConfig []RabbitmqPublishersConfig) error {
	var initErr error
	oncePublisher.Do(func() {
		PublisherRegistry = make(map[PublisherAlias]IRabbitmqPublisher)

		for _, publisher := range publisherConfig {
			channel, err := conn.Channel()
			if err != nil {
				initErr = fmt.Errorf("open channel for publisher %s: %w", publisher.PublisherAlias, err)
				return
			}
			if err := channel.ExchangeDeclare(publisher.Exchange, publisher.ExchangeType, true, false, false, false, nil); err != nil {
				initErr = fmt.Errorf("declare exchange %s: %w", publisher.Exchange, err)
				return
			}

			PublisherRegistry[publisher.PublisherAlias] = NewPublisher(
				channel,
				publisher.Exchange,
				publisher.RoutingKey,
			)
		}
	})
	return initErr
}

// PublishChannel is the part of *amqp.Channel a publisher needs.
type PublishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitmqPublisher struct {
	Channel    PublishChannel
	Exchange   string
	RoutingKey string
}

func NewPublisher(ch PublishChannel, exchange, routingKey string) *RabbitmqPublisher {
	return &RabbitmqPublisher{
		Channel:    ch,
		Exchange:   exchange,
		RoutingKey: routingKey,
	}
}

type IRabbitmqPublisher interface {
	Publish(ctx context.Context, body utilities.Serializable, opts ...PublishOption) error
}

type publishing struct {
	routingKey string
	msg        amqp.Publishing
}

type PublishOption func(*publishing)

func WithRoutingKey(key string) PublishOption {
	return func(p *publishing) {
		p.routingKey = key
	}
}

func WithMessageId(id string) PublishOption {
	return func(p *publishing) {
		p.msg.MessageId = id
	}
}

func WithType(messageType string) PublishOption {
	return func(p *publishing) {
		p.msg.Type = messageType
	}
}

func (rp *RabbitmqPublisher) Publish(ctx context.Context, body utilities.Serializable, opts ...PublishOption) error {
	json, err := body.Serialize()
	if err != nil {
		return err
	}

	p := publishing{
		routingKey: rp.RoutingKey,
		msg: amqp.Publishing{
			ContentType:  "application/json",
			Body:         json,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		},
	}
	for _, opt := range opts {
		opt(&p)
	}

	return rp.Channel.PublishWithContext(ctx, rp.Exchange, p.routingKey, false, false, p.msg)
}
