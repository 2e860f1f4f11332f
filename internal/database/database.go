package database

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"fairpass/pkg/utilities"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

type DatabaseConfigJson struct {
	Driver           string `json:"driver" env:"DRIVER"`
	ConnectionString string `json:"connection_string" env:"CONNECTION_STRING"`
	AutoMigrate      *bool  `json:"auto_migrate" env:"AUTO_MIGRATE"`
}

type DatabaseConfig struct {
	Driver           string
	ConnectionString string
	AutoMigrate      bool
}

func (dcj DatabaseConfigJson) ConvertToDomain() DatabaseConfig {
	return DatabaseConfig{
		Driver:           utilities.Ternary(dcj.Driver == "", DriverSqlite, strings.ToLower(dcj.Driver)),
		ConnectionString: utilities.Ternary(dcj.ConnectionString == "", "fairpass.db", dcj.ConnectionString),
		AutoMigrate:      dcj.AutoMigrate == nil || *dcj.AutoMigrate,
	}
}

var (
	db     *gorm.DB
	dbOnce sync.Once
)

// Open connects with unique-key violations translated to gorm.ErrDuplicatedKey.
func Open(cfg DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSqlite:
		dialector = sqlite.Open(cfg.ConnectionString)
	case DriverPostgres:
		dialector = postgres.Open(cfg.ConnectionString)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSqlite {
		// sqlite allows one writer; a single connection serialises transactions instead of failing them
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return conn, nil
}

func InitializeDatabaseConnection(cfg DatabaseConfig) error {
	var err error
	dbOnce.Do(func() {
		db, err = Open(cfg)
	})
	return err
}

func GetDatabaseConnection() *gorm.DB {
	if db == nil {
		panic(errors.New("database not initialized: call InitializeDatabaseConnection() first"))
	}
	return db
}
