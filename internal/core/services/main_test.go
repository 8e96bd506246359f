package services

import (
	"testing"

	"opspulse/internal/adapters/persistence/models"
	"opspulse/internal/config"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the production gorm
// settings. A single connection keeps every query on the same in-memory
// store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// newTestConfig returns a config pointing exports at a per-test dir
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			AccessTokenHours: 1,
		},
		Export: config.ExportConfig{
			Dir:        t.TempDir(),
			PublicPath: "/downloads",
		},
	}
}
