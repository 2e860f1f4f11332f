package model

import "time"

type UsedNullifier struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	EventId   string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_nullifier_event_value"`
	Nullifier string    `gorm:"type:char(66);not null;uniqueIndex:idx_nullifier_event_value"`
	Root      string    `gorm:"type:char(66);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UsedNullifier) TableName() string {
	return "used_nullifiers"
}
