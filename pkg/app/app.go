// Package app builds the catalogue's services from configuration. The HTTP
// service and the operator CLI share it.
package app

import (
	"fmt"

	"github.com/phage-catalogue/platform/pkg/common/config"
	"github.com/phage-catalogue/platform/pkg/common/database"
	"github.com/phage-catalogue/platform/pkg/common/kafka"
	"github.com/phage-catalogue/platform/pkg/common/logger"
	"github.com/phage-catalogue/platform/pkg/lookups"
	"github.com/phage-catalogue/platform/pkg/schema"
	"github.com/phage-catalogue/platform/pkg/specimens"
	"github.com/phage-catalogue/platform/pkg/uploads"
	"gorm.io/gorm"
)

const eventSource = "catalogue-service"

type App struct {
	DB        *gorm.DB
	Catalogue schema.Catalogue
	Lookups   *lookups.Service
	Specimens *specimens.Service
	Uploads   *uploads.Service

	closers []func() error
}

// New opens the database and wires every service. The Redis lookup cache and
// the Kafka upload events are only enabled when configured.
func New(cfg *config.Config) (*App, error) {
	catalogue, err := schema.Load(cfg.ColumnSchemaPath)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return NewWithDB(cfg, db, catalogue), nil
}

// NewWithDB wires the services around an already open database.
func NewWithDB(cfg *config.Config, db *gorm.DB, catalogue schema.Catalogue) *App {
	a := &App{DB: db, Catalogue: catalogue}
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	var cache lookups.Cache
	if cfg.LookupCacheEnabled {
		client := database.NewRedis(cfg)
		cache = lookups.NewRedisCache(client, cfg.LookupCacheTTL)
		a.closers = append(a.closers, client.Close)
	}
	a.Lookups = lookups.NewService(lookups.NewRepository(db), cache)
	a.Specimens = specimens.NewService(db, a.Lookups)

	var events uploads.EventPublisher
	if cfg.UploadEventsTopic != "" {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.UploadEventsTopic, eventSource)
		events = producer
		a.closers = append(a.closers, producer.Close)
	}
	a.Uploads = uploads.NewService(db, catalogue, a.Lookups, uploads.NewFileStore(cfg.FileUploadDirectory), events)

	return a
}

// Migrate creates or updates every table.
func (a *App) Migrate() error {
	if err := specimens.NewRepository(a.DB).AutoMigrate(); err != nil {
		return fmt.Errorf("migrating specimens: %w", err)
	}
	if err := uploads.NewRepository(a.DB).AutoMigrate(); err != nil {
		return fmt.Errorf("migrating uploads: %w", err)
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Log.WithError(err).Warn("error during shutdown")
		}
	}
}
