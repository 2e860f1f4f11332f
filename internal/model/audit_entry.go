package model

import "time"

// AuditEntry is a relayed admission event as seen by the audit consumer.
type AuditEntry struct {
	Id         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageId  string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"message_id"`
	Type       string    `gorm:"type:varchar(64);not null;index" json:"type"`
	EventId    string    `gorm:"type:varchar(128);not null;index" json:"event_id"`
	Detail     string    `gorm:"type:text;not null" json:"detail"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "admission_audit_entries"
}
