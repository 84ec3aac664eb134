package database

import (
	"fmt"

	"github.com/phage-catalogue/platform/pkg/common/config"
	"github.com/phage-catalogue/platform/pkg/common/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the database selected by cfg.DatabaseDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.PostgresHost,
			cfg.PostgresUser,
			cfg.PostgresPassword,
			cfg.PostgresDB,
			cfg.PostgresPort,
			cfg.PostgresSSLMode,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(logger.Log, cfg.SlowQuery),
	})
	if err != nil {
		logger.Log.WithError(err).WithField("driver", cfg.DatabaseDriver).Error("Failed to connect to database")
		return nil, err
	}

	logger.Log.WithField("driver", cfg.DatabaseDriver).Info("Connected to database")
	return conn, nil
}
