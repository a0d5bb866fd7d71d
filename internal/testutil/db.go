// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database migrated with the
// production models. It is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection serializes access the way a single-row update would on Postgres.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
