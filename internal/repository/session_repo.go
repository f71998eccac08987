package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"lexdesk/internal/models"
)

type SessionRepository interface {
	Create(session *models.Session) error
	GetByToken(token string) (*models.Session, error)
	Delete(token string) error
	DeleteByUserID(userID uint) error
	DeleteExpired(now time.Time) (int64, error)
}

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) (*GormSessionRepository, error) {
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		return nil, err
	}
	return &GormSessionRepository{db: db}, nil
}

func (r *GormSessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// GetByToken возвращает сессию вместе с пользователем
func (r *GormSessionRepository) GetByToken(token string) (*models.Session, error) {
	var session models.Session
	err := r.db.Preload("User").Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormSessionRepository) Delete(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

func (r *GormSessionRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

func (r *GormSessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
