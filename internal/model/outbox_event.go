package model

import (
	"encoding/json"
	"time"

	dtocommon "fairpass/pkg/dto_common"
	"fairpass/pkg/utilities/timeutil"
)

type OutboxEvent struct {
	Id          uint   `gorm:"primaryKey;autoIncrement"`
	EventId     string `gorm:"type:varchar(36);uniqueIndex;not null"`
	Type        string `gorm:"type:varchar(64);not null"`
	AggregateId string `gorm:"type:varchar(128);not null;index"`
	Payload     string `gorm:"type:text;not null"`
	Retry       int    `gorm:"not null;default:0"`
	ToProcess   bool   `gorm:"not null;default:true;index"`
	ProcessedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

func (oe OutboxEvent) MapToAdmissionEvent() dtocommon.AdmissionEventDto {
	return dtocommon.AdmissionEventDto{
		Id:         oe.EventId,
		Type:       oe.Type,
		EventId:    oe.AggregateId,
		Payload:    json.RawMessage(oe.Payload),
		OccurredAt: timeutil.FromTime(oe.CreatedAt),
	}
}
