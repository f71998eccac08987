package repository

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lexdesk/internal/logging"
)

// ErrAlreadyBilled — запись уже включена в другой счет
var ErrAlreadyBilled = errors.New("timesheet entry is already billed")

// ErrDailyLimit — сумма записей за день превысила бы сутки
var ErrDailyLimit = errors.New("daily minutes limit exceeded")

// Open открывает SQLite базу и включает внешние ключи.
func Open(dsn string) (*gorm.DB, error) {
	log := logging.New()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
		Logger:                                   logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}

	// Включаем поддержку внешних ключей (требуется для SQLite)
	if _, err = sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Warnf("Failed to enable foreign keys: %v", err)
	}

	return db, nil
}

// Close закрывает пул соединений.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
