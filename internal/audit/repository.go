package audit

import (
	"context"

	"fairpass/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuditRepository interface {
	CreateEntry(ctx context.Context, entry model.AuditEntry) error
	GetEntriesByEvent(ctx context.Context, eventId string, limit, offset int) ([]model.AuditEntry, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// CreateEntry ignores a redelivered message that was already stored.
func (r *auditRepository) CreateEntry(ctx context.Context, entry model.AuditEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "message_id"}}, DoNothing: true}).
		Create(&entry).Error
}

func (r *auditRepository) GetEntriesByEvent(ctx context.Context, eventId string, limit, offset int) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	result := r.db.WithContext(ctx).
		Where("event_id = ?", eventId).
		Order("occurred_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries)
	return entries, result.Error
}
