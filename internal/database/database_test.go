package database

import (
	"testing"

	"fairpass/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDatabaseConfigConvertToDomain(t *testing.T) {
	disabled := false

	cfg := DatabaseConfigJson{}.ConvertToDomain()
	assert.Equal(t, DriverSqlite, cfg.Driver)
	assert.Equal(t, "fairpass.db", cfg.ConnectionString)
	assert.True(t, cfg.AutoMigrate)

	cfg = DatabaseConfigJson{Driver: "Postgres", ConnectionString: "host=db", AutoMigrate: &disabled}.ConvertToDomain()
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.False(t, cfg.AutoMigrate)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestUniqueViolationIsTranslated(t *testing.T) {
	conn := NewTestDB(t)

	member := model.Member{EventId: "e", LeafIndex: 0, Commitment: "0x01", Root: "0x02"}
	require.NoError(t, conn.Create(&member).Error)

	again := model.Member{EventId: "e", LeafIndex: 1, Commitment: "0x01", Root: "0x03"}
	assert.ErrorIs(t, conn.Create(&again).Error, gorm.ErrDuplicatedKey)

	sameLeaf := model.Member{EventId: "e", LeafIndex: 0, Commitment: "0x04", Root: "0x03"}
	assert.ErrorIs(t, conn.Create(&sameLeaf).Error, gorm.ErrDuplicatedKey)

	otherEvent := model.Member{EventId: "f", LeafIndex: 0, Commitment: "0x01", Root: "0x02"}
	assert.NoError(t, conn.Create(&otherEvent).Error)
}
