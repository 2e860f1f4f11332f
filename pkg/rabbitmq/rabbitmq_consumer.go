package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fairpass/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

type ConsumerAlias string

// ErrRequeue marks a handler failure worth another delivery, such as a storage outage.
var ErrRequeue = errors.New("requeue delivery")

// Requeue wraps err so the consumer hands the delivery back to the broker instead of dropping it.
func Requeue(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRequeue, err)
}

var (
	ConsumerRegistry    map[ConsumerAlias]IRabbitmqConsumer
	onceConsumer        sync.Once
	initializedConsumer bool
)

func GetConsumer(alias ConsumerAlias) IRabbitmqConsumer {
	if !initializedConsumer {
		panic("Consumer registry not initialized: call InitializeConsumerRegistry() first")
	}
	return ConsumerRegistry[alias]
}

// InitializeConsumerRegistry declares each consumer's queue, binds it and opens its channel.
func InitializeConsumerRegistry(conn *amqp.Connection, consumerConfig []RabbitmqConsumerConfig, log *logger.Logger) error {
	var initErr error
	onceConsumer.Do(func() {
		ConsumerRegistry = make(map[ConsumerAlias]IRabbitmqConsumer)

		for _, consumer := range consumerConfig {
			channel, err := conn.Channel()
			if err != nil {
				initErr = fmt.Errorf("open channel for consumer %s: %w", consumer.ConsumerAlias, err)
				return
			}
			if _, err := channel.QueueDeclare(consumer.QueueName, true, false, false, false, nil); err != nil {
				initErr = fmt.Errorf("declare queue %s: %w", consumer.QueueName, err)
				return
			}
			if consumer.Exchange != "" {
				if err := channel.QueueBind(consumer.QueueName, consumer.BindingKey, consumer.Exchange, false, nil); err != nil {
					initErr = fmt.Errorf("bind queue %s: %w", consumer.QueueName, err)
					return
				}
			}

			ConsumerRegistry[consumer.ConsumerAlias] = NewConsumer(
				channel,
				consumer.QueueName,
				consumer.ConsumerTag,
				log,
			)
		}

		initializedConsumer = true
	})
	return initErr
}

// ConsumeChannel is the part of *amqp.Channel a consumer needs.
type ConsumeChannel interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type RabbitmqConsumer struct {
	Channel     ConsumeChannel
	QueueName   string
	ConsumerTag string
	logger      *logger.Logger
}

type IRabbitmqConsumer interface {
	StartConsuming(ctx context.Context, handler func(amqp.Delivery) error) error
}

func NewConsumer(ch ConsumeChannel, queueName, consumerTag string, log *logger.Logger) *RabbitmqConsumer {
	return &RabbitmqConsumer{
		Channel:     ch,
		QueueName:   queueName,
		ConsumerTag: consumerTag,
		logger:      log,
	}
}

// StartConsuming blocks until ctx is done or the delivery channel closes. A delivery is
// acked when handler succeeds, requeued when the error wraps ErrRequeue and dropped otherwise.
// A panicking handler drops only its delivery.
func (rc *RabbitmqConsumer) StartConsuming(ctx context.Context, handler func(amqp.Delivery) error) error {
	msgs, err := rc.Channel.Consume(
		rc.QueueName,   // queue
		rc.ConsumerTag, // consumer
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("register consumer %s: %w", rc.ConsumerTag, err)
	}

	rc.logger.Infof("Waiting for messages in queue: %s", rc.QueueName)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			rc.handle(d, handler)
		}
	}
}

func (rc *RabbitmqConsumer) handle(d amqp.Delivery, handler func(amqp.Delivery) error) {
	defer func() {
		if r := recover(); r != nil {
			rc.logger.Errorf(nil, "[%s] Recovered from panic for consumer: %s, %v", rc.QueueName, rc.ConsumerTag, r)
			_ = d.Nack(false, false)
		}
	}()

	if err := handler(d); err != nil {
		if errors.Is(err, ErrRequeue) {
			rc.logger.Warnf("[%s] Requeueing message %s: %v", rc.QueueName, d.MessageId, err)
			_ = d.Nack(false, true)
			return
		}
		rc.logger.Errorf(err, "[%s] Dropping message %s", rc.QueueName, d.MessageId)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
