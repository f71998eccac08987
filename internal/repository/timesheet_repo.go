package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lexdesk/internal/logging"
	"lexdesk/internal/models"
	"lexdesk/pkg/civil"
)

type TimesheetRepository interface {
	Create(entry *models.TimesheetEntry) error
	Update(entry *models.TimesheetEntry) error
	Delete(id uint) error
	GetByID(id uint) (*models.TimesheetEntry, error)
	GetByUserAndPeriod(userID uint, start, end civil.Date) ([]*models.TimesheetEntry, error)
	GetForBilling(clientID uint, start, end civil.Date, unbilledOnly bool) ([]*models.TimesheetEntry, error)
	MinutesByDate(userID uint, start, end civil.Date) (map[civil.Date]int, error)
	SubmittedDates(userID uint, start, end civil.Date, minMinutes int) ([]civil.Date, error)
}

type GormTimesheetRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormTimesheetRepository(db *gorm.DB) (*GormTimesheetRepository, error) {
	logger := logging.New()

	// Автомиграция
	if err := db.AutoMigrate(&models.TimesheetEntry{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate timesheet_entries table")
		return nil, err
	}

	logger.Debug("Timesheet repository initialized")

	return &GormTimesheetRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Create сохраняет запись. Сумма за день проверяется в той же транзакции,
// поэтому параллельные записи не превысят лимит суток.
func (r *GormTimesheetRepository) Create(entry *models.TimesheetEntry) error {
	if !entry.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"user_id": entry.UserID,
			"date":    entry.Date.String(),
		}).Warn("Invalid timesheet entry data")
		return errors.New("invalid timesheet entry")
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkDailyLimit(tx, entry); err != nil {
			return err
		}
		return tx.Omit("User", "Client", "Topic").Create(entry).Error
	})
	if err != nil {
		if !errors.Is(err, ErrDailyLimit) {
			r.logger.WithError(err).Error("Failed to create timesheet entry")
		}
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"entry_id": entry.ID,
		"user_id":  entry.UserID,
		"date":     entry.Date.String(),
		"minutes":  entry.Minutes,
	}).Info("Timesheet entry created")

	return nil
}

func (r *GormTimesheetRepository) Update(entry *models.TimesheetEntry) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkDailyLimit(tx, entry); err != nil {
			return err
		}
		return tx.Omit("User", "Client", "Topic").Save(entry).Error
	})
	if err != nil {
		if !errors.Is(err, ErrDailyLimit) {
			r.logger.WithError(err).Error("Failed to update timesheet entry")
		}
		return err
	}
	return nil
}

// checkDailyLimit суммирует остальные записи дня (кроме самой entry)
func checkDailyLimit(tx *gorm.DB, entry *models.TimesheetEntry) error {
	var logged int64
	err := tx.Model(&models.TimesheetEntry{}).
		Select("COALESCE(SUM(minutes), 0)").
		Where("user_id = ? AND date = ? AND id <> ?", entry.UserID, entry.Date, entry.ID).
		Scan(&logged).Error
	if err != nil {
		return err
	}
	if int(logged)+entry.Minutes > models.MaxMinutesPerDay {
		return ErrDailyLimit
	}
	return nil
}

func (r *GormTimesheetRepository) Delete(id uint) error {
	result := r.db.Delete(&models.TimesheetEntry{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete timesheet entry")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormTimesheetRepository) GetByID(id uint) (*models.TimesheetEntry, error) {
	var entry models.TimesheetEntry
	result := r.db.Preload("Client").Preload("Topic").First(&entry, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get timesheet entry by ID")
		return nil, result.Error
	}

	return &entry, nil
}

func (r *GormTimesheetRepository) GetByUserAndPeriod(userID uint, start, end civil.Date) ([]*models.TimesheetEntry, error) {
	var entries []*models.TimesheetEntry
	result := r.db.Preload("Client").Preload("Topic").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Order("date ASC, id ASC").
		Find(&entries)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get timesheet entries by period")
		return nil, result.Error
	}

	return entries, nil
}

// GetForBilling возвращает оплачиваемые записи клиента за период.
// unbilledOnly отсекает записи, уже попавшие в счет.
func (r *GormTimesheetRepository) GetForBilling(clientID uint, start, end civil.Date, unbilledOnly bool) ([]*models.TimesheetEntry, error) {
	var entries []*models.TimesheetEntry
	query := r.db.Preload("User").Preload("Topic").
		Where("client_id = ? AND billable = ? AND date BETWEEN ? AND ?", clientID, true, start, end)
	if unbilledOnly {
		query = query.Where("billing_document_id IS NULL")
	}
	result := query.Order("date ASC, id ASC").Find(&entries)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get billable entries")
		return nil, result.Error
	}

	return entries, nil
}

type dateMinutes struct {
	Date    string
	Minutes int64
}

// MinutesByDate — сумма минут по каждой дате периода
func (r *GormTimesheetRepository) MinutesByDate(userID uint, start, end civil.Date) (map[civil.Date]int, error) {
	var rows []dateMinutes
	result := r.db.Model(&models.TimesheetEntry{}).
		Select("date, SUM(minutes) as minutes").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Group("date").
		Scan(&rows)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to aggregate minutes by date")
		return nil, result.Error
	}

	byDate := make(map[civil.Date]int, len(rows))
	for _, row := range rows {
		d, err := civil.ParseDate(row.Date)
		if err != nil {
			return nil, err
		}
		byDate[d] = int(row.Minutes)
	}
	return byDate, nil
}

// SubmittedDates — даты, где сумма минут не меньше minMinutes
func (r *GormTimesheetRepository) SubmittedDates(userID uint, start, end civil.Date, minMinutes int) ([]civil.Date, error) {
	var rows []dateMinutes
	result := r.db.Model(&models.TimesheetEntry{}).
		Select("date, SUM(minutes) as minutes").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Group("date").
		Having("SUM(minutes) >= ?", minMinutes).
		Order("date ASC").
		Scan(&rows)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get submitted dates")
		return nil, result.Error
	}

	dates := make([]civil.Date, 0, len(rows))
	for _, row := range rows {
		d, err := civil.ParseDate(row.Date)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}
