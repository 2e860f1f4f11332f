package database

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

// NewTestDB opens a migrated sqlite database in a temporary directory.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := Open(DatabaseConfig{
		Driver:           DriverSqlite,
		ConnectionString: filepath.Join(t.TempDir(), "fairpass-test.db"),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := AutoMigrate(conn); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
