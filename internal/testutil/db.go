// Package testutil содержит помощники для тестов.
package testutil

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lexdesk/internal/logging"
)

// NewDB открывает пустую SQLite в памяти. Одно соединение, иначе
// каждое новое соединение увидит свою пустую базу.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	logging.SetOutput(io.Discard)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
