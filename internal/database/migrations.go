package database

import (
	"fairpass/internal/model"

	"gorm.io/gorm"
)

func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&model.Member{},
		&model.UsedNullifier{},
		&model.OutboxEvent{},
		&model.AuditEntry{},
	)
}
