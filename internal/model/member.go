package model

import "time"

// Member is one approved commitment at its leaf position.
type Member struct {
	Id         uint      `gorm:"primaryKey;autoIncrement"`
	EventId    string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_member_event_commitment;uniqueIndex:idx_member_event_leaf"`
	LeafIndex  int       `gorm:"not null;uniqueIndex:idx_member_event_leaf"`
	Commitment string    `gorm:"type:char(66);not null;uniqueIndex:idx_member_event_commitment"`
	Root       string    `gorm:"type:char(66);not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Member) TableName() string {
	return "event_members"
}
