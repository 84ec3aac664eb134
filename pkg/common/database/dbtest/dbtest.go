// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/phage-catalogue/platform/pkg/common/database"
	"github.com/phage-catalogue/platform/pkg/common/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns a file-backed SQLite database in t's temp dir, closed on
// cleanup. Each migrate func runs once before the database is returned.
func Open(t testing.TB, migrate ...func(*gorm.DB) error) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalogue.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: database.NewGormLogger(logger.Log, 0),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	for _, m := range migrate {
		if err := m(db); err != nil {
			t.Fatalf("migrating: %v", err)
		}
	}
	return db
}
