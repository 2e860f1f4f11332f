package outbox

import (
	"context"

	"fairpass/pkg/logger"
	"fairpass/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

const (
	outboxWorkerName = "OutboxCronWorker"
	defaultSchedule  = "@every 10s"
	defaultBatchSize = 100
)

type OutboxWorker struct {
	publisher  rabbitmq.IRabbitmqPublisher
	repository OutboxRepository
	logger     *logger.Logger
	schedule   string
	batchSize  int
	cron       *cron.Cron
}

type Option func(*OutboxWorker)

func WithSchedule(spec string) Option {
	return func(ow *OutboxWorker) {
		if spec != "" {
			ow.schedule = spec
		}
	}
}

func WithBatchSize(n int) Option {
	return func(ow *OutboxWorker) {
		if n > 0 {
			ow.batchSize = n
		}
	}
}

func NewOutboxWorker(repository OutboxRepository, publisher rabbitmq.IRabbitmqPublisher, log *logger.Logger, opts ...Option) *OutboxWorker {
	ow := &OutboxWorker{
		publisher:  publisher,
		repository: repository,
		logger:     log,
		schedule:   defaultSchedule,
		batchSize:  defaultBatchSize,
		cron:       cron.New(),
	}
	for _, opt := range opts {
		opt(ow)
	}
	return ow
}

func (ow *OutboxWorker) GetServiceName() string {
	return outboxWorkerName
}

func (ow *OutboxWorker) StartService(ctx context.Context) {
	err := ow.cron.AddFunc(ow.schedule, func() { ow.ProcessOutboxEvents(ctx) })
	if err != nil {
		ow.logger.Errorf(err, "Could not add function to %s", outboxWorkerName)
		return
	}

	ow.cron.Start()
	<-ctx.Done()
	ow.cron.Stop()
}

// ProcessOutboxEvents relays one batch of pending events in insertion order.
func (ow *OutboxWorker) ProcessOutboxEvents(ctx context.Context) {
	events, err := ow.repository.GetUnprocessedEvents(ctx, ow.batchSize)
	if err != nil {
		ow.logger.Error(err, "Could not read events from database")
		return
	}

	for _, e := range events {
		eventId, err := uuid.Parse(e.EventId)
		if err != nil {
			ow.logger.Errorf(err, "Parking outbox row %d with malformed event id", e.Id)
			if err := ow.repository.ParkEvent(ctx, e.Id); err != nil {
				ow.logger.Errorf(err, "Could not park outbox row %d", e.Id)
			}
			continue
		}

		err = ow.publisher.Publish(ctx, e.MapToAdmissionEvent(),
			rabbitmq.WithRoutingKey(e.Type),
			rabbitmq.WithMessageId(e.EventId),
			rabbitmq.WithType(e.Type),
		)
		if err != nil {
			ow.logger.Errorf(err, "Can't publish outbox event %s", e.EventId)
			if err := ow.repository.UpdateRetryValue(ctx, eventId); err != nil {
				ow.logger.Errorf(err, "Could not record retry for outbox event %s", e.EventId)
			}
			continue
		}

		if err := ow.repository.MarkEventAsProcessed(ctx, eventId); err != nil {
			ow.logger.Errorf(err, "Could not mark outbox event %s as processed", e.EventId)
		}
	}
}
