package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	dtocommon "fairpass/pkg/dto_common"
	"fairpass/pkg/logger"
	"fairpass/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

const auditWorkerName = "AdmissionAuditWorker"

type AuditWorker struct {
	service  AuditService
	consumer rabbitmq.IRabbitmqConsumer
	logger   *logger.Logger
}

func NewAuditWorker(service AuditService, consumer rabbitmq.IRabbitmqConsumer, log *logger.Logger) *AuditWorker {
	return &AuditWorker{
		service:  service,
		consumer: consumer,
		logger:   log,
	}
}

func (w *AuditWorker) GetServiceName() string {
	return auditWorkerName
}

func (w *AuditWorker) StartService(ctx context.Context) {
	w.logger.Info("Starting admission audit worker")

	err := w.consumer.StartConsuming(ctx, func(d amqp.Delivery) error {
		return w.HandleDelivery(ctx, d)
	})
	if err != nil && ctx.Err() == nil {
		w.logger.Error(err, "Admission audit consumer stopped")
	}
}

func (w *AuditWorker) HandleDelivery(ctx context.Context, d amqp.Delivery) error {
	var event dtocommon.AdmissionEventDto
	if err := json.Unmarshal(d.Body, &event); err != nil {
		return fmt.Errorf("unmarshal admission event: %w", err)
	}

	if err := w.service.ProcessAdmissionEvent(ctx, event); err != nil {
		if errors.Is(err, ErrMalformedEvent) {
			return err
		}
		// the outbox row is already processed, so a failed store must be redelivered
		return rabbitmq.Requeue(fmt.Errorf("store admission event %s: %w", event.Id, err))
	}

	w.logger.Debugf("Stored admission event %s (%s) for %s", event.Id, event.Type, event.EventId)
	return nil
}
