package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lexdesk/internal/models"
	"lexdesk/pkg/civil"
)

type NonWorkingDayRepository interface {
	Create(day *models.NonWorkingDay) error
	GetByDate(date civil.Date) (*models.NonWorkingDay, error)
	GetByPeriod(start, end civil.Date) ([]models.NonWorkingDay, error)
	GetAll() ([]models.NonWorkingDay, error)
	BulkUpsert(days []models.NonWorkingDay) error
	Delete(date civil.Date) error
	IsNonWorkingDay(date civil.Date) (bool, error)
}

type GormNonWorkingDayRepository struct {
	db *gorm.DB
}

func NewGormNonWorkingDayRepository(db *gorm.DB) (*GormNonWorkingDayRepository, error) {
	// Автомиграция для таблицы non_working_days
	if err := db.AutoMigrate(&models.NonWorkingDay{}); err != nil {
		return nil, err
	}

	return &GormNonWorkingDayRepository{db: db}, nil
}

func (r *GormNonWorkingDayRepository) Create(day *models.NonWorkingDay) error {
	return r.db.Create(day).Error
}

// BulkUpsert добавляет дни; при совпадении даты обновляет название
func (r *GormNonWorkingDayRepository) BulkUpsert(days []models.NonWorkingDay) error {
	if len(days) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&days).Error
}

func (r *GormNonWorkingDayRepository) GetByDate(date civil.Date) (*models.NonWorkingDay, error) {
	var day models.NonWorkingDay
	err := r.db.Where("date = ?", date).First(&day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *GormNonWorkingDayRepository) GetByPeriod(start, end civil.Date) ([]models.NonWorkingDay, error) {
	var days []models.NonWorkingDay
	err := r.db.Where("date BETWEEN ? AND ?", start, end).Order("date ASC").Find(&days).Error
	return days, err
}

func (r *GormNonWorkingDayRepository) GetAll() ([]models.NonWorkingDay, error) {
	var days []models.NonWorkingDay
	err := r.db.Order("date ASC").Find(&days).Error
	return days, err
}

func (r *GormNonWorkingDayRepository) Delete(date civil.Date) error {
	result := r.db.Where("date = ?", date).Delete(&models.NonWorkingDay{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormNonWorkingDayRepository) IsNonWorkingDay(date civil.Date) (bool, error) {
	var count int64
	err := r.db.Model(&models.NonWorkingDay{}).
		Where("date = ?", date).
		Count(&count).Error
	return count > 0, err
}
