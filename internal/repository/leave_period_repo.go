package repository

import (
	"errors"

	"gorm.io/gorm"

	"lexdesk/internal/models"
	"lexdesk/pkg/civil"
)

type LeavePeriodRepository interface {
	Create(period *models.LeavePeriod) error
	Update(period *models.LeavePeriod) error
	GetByID(id uint) (*models.LeavePeriod, error)
	GetByUserID(userID uint) ([]*models.LeavePeriod, error)
	GetByStatus(status string) ([]*models.LeavePeriod, error)
	HasConflict(userID uint, start, end civil.Date, excludeID uint) (bool, error)
	GetApprovedOverlapping(userID uint, start, end civil.Date) ([]*models.LeavePeriod, error)
	GetCurrentLeave(userID uint, date civil.Date) (*models.LeavePeriod, error)
}

type GormLeavePeriodRepository struct {
	db *gorm.DB
}

func NewGormLeavePeriodRepository(db *gorm.DB) (*GormLeavePeriodRepository, error) {
	if err := db.AutoMigrate(&models.LeavePeriod{}); err != nil {
		return nil, err
	}
	return &GormLeavePeriodRepository{db: db}, nil
}

func (r *GormLeavePeriodRepository) Create(period *models.LeavePeriod) error {
	return r.db.Omit("User").Create(period).Error
}

func (r *GormLeavePeriodRepository) Update(period *models.LeavePeriod) error {
	return r.db.Omit("User").Save(period).Error
}

func (r *GormLeavePeriodRepository) GetByID(id uint) (*models.LeavePeriod, error) {
	var period models.LeavePeriod
	err := r.db.Preload("User").First(&period, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *GormLeavePeriodRepository) GetByUserID(userID uint) ([]*models.LeavePeriod, error) {
	var periods []*models.LeavePeriod
	err := r.db.Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&periods).Error
	return periods, err
}

func (r *GormLeavePeriodRepository) GetByStatus(status string) ([]*models.LeavePeriod, error) {
	var periods []*models.LeavePeriod
	err := r.db.Preload("User").
		Where("status = ?", status).
		Order("start_date ASC").
		Find(&periods).Error
	return periods, err
}

// HasConflict проверяет пересечение с активными (ожидающими или одобренными) заявками
func (r *GormLeavePeriodRepository) HasConflict(userID uint, start, end civil.Date, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.LeavePeriod{}).
		Where("user_id = ? AND status IN ?", userID, []string{models.LeaveStatusPending, models.LeaveStatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *GormLeavePeriodRepository) GetApprovedOverlapping(userID uint, start, end civil.Date) ([]*models.LeavePeriod, error) {
	var periods []*models.LeavePeriod
	err := r.db.Where("user_id = ? AND status = ?", userID, models.LeaveStatusApproved).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Find(&periods).Error
	return periods, err
}

// GetCurrentLeave возвращает одобренное отсутствие на дату
func (r *GormLeavePeriodRepository) GetCurrentLeave(userID uint, date civil.Date) (*models.LeavePeriod, error) {
	var period models.LeavePeriod
	err := r.db.Where("user_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
		userID, models.LeaveStatusApproved, date, date).
		First(&period).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &period, nil
}
