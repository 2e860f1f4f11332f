package outbox

import (
	"context"
	"time"

	"fairpass/internal/model"
	"fairpass/pkg/utilities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxRetries = 5

type OutboxRepository interface {
	GetEvent(ctx context.Context, eventId uuid.UUID) (model.OutboxEvent, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, eventId uuid.UUID) error
	UpdateRetryValue(ctx context.Context, eventId uuid.UUID) error
	ParkEvent(ctx context.Context, id uint) error
}

type outboxRepository struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

// NewEvent stages an event on tx so it commits or rolls back with the change it describes.
func NewEvent(tx *gorm.DB, eventType, aggregateId string, payload utilities.Serializable) (uuid.UUID, error) {
	eventId, err := uuid.NewRandom()
	if err != nil {
		return eventId, err
	}

	body, err := payload.Serialize()
	if err != nil {
		return eventId, err
	}

	result := tx.Create(&model.OutboxEvent{
		EventId:     eventId.String(),
		Type:        eventType,
		AggregateId: aggregateId,
		Payload:     string(body),
		ToProcess:   true,
	})
	return eventId, result.Error
}

func (or *outboxRepository) GetEvent(ctx context.Context, eventId uuid.UUID) (model.OutboxEvent, error) {
	var event model.OutboxEvent
	result := or.db.WithContext(ctx).First(&event, "event_id = ?", eventId.String())
	return event, result.Error
}

func (or *outboxRepository) GetUnprocessedEvents(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var events []model.OutboxEvent
	result := or.db.WithContext(ctx).
		Where("to_process = ?", true).
		Order("id ASC").
		Limit(limit).
		Find(&events)
	return events, result.Error
}

func (or *outboxRepository) MarkEventAsProcessed(ctx context.Context, eventId uuid.UUID) error {
	now := time.Now().UTC()
	return or.db.WithContext(ctx).
		Model(&model.OutboxEvent{}).
		Where("event_id = ?", eventId.String()).
		Updates(map[string]any{"to_process": false, "processed_at": &now}).
		Error
}

// UpdateRetryValue counts a failed publish. After maxRetries the event is parked
// (no longer processed, no processed_at) for manual inspection.
func (or *outboxRepository) UpdateRetryValue(ctx context.Context, eventId uuid.UUID) error {
	return or.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.OutboxEvent
		if err := tx.First(&event, "event_id = ?", eventId.String()).Error; err != nil {
			return err
		}

		retry := event.Retry + 1
		return tx.Model(&model.OutboxEvent{}).
			Where("event_id = ?", eventId.String()).
			Updates(map[string]any{"retry": retry, "to_process": retry < maxRetries}).
			Error
	})
}

// ParkEvent takes a row that can never be relayed out of the pending set, keyed by
// row id since its event id may be unreadable.
func (or *outboxRepository) ParkEvent(ctx context.Context, id uint) error {
	return or.db.WithContext(ctx).
		Model(&model.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{"retry": maxRetries, "to_process": false}).
		Error
}
