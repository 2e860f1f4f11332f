package database

import (
	appbuilder "fairpass/pkg/app_builder"
	"fairpass/pkg/utilities"
)

type AppConfig interface {
	appbuilder.AppConfig
	GetDatabaseConfig() DatabaseConfig
}

// ConnectToDatabase opens the global connection and migrates it when configured to.
func ConnectToDatabase[T utilities.JsonConfigObj[U], U AppConfig](a *appbuilder.AppBuilder[T, U]) {
	cfg := a.Config.GetDatabaseConfig()
	a.Logger.Infof("Establishing connection to %s database...", cfg.Driver)

	if err := InitializeDatabaseConnection(cfg); err != nil {
		a.Logger.Error(err, "Failed to connect to database")
		panic(err)
	}
	a.OnShutdown(func() error {
		sqlDB, err := GetDatabaseConnection().DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	a.Logger.Info("Database connection established successfully.")

	if cfg.AutoMigrate {
		if err := AutoMigrate(GetDatabaseConnection()); err != nil {
			a.Logger.Error(err, "Failed to run migrations")
			panic(err)
		}
		a.Logger.Info("Database migrations applied.")
	}
}
