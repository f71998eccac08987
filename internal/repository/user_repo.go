package repository

import (
	"errors"

	"gorm.io/gorm"

	"lexdesk/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByChatID(chatID int64) (*models.User, error)
	GetAll() ([]*models.User, error)
	GetWithChat() ([]*models.User, error)
	UpdateRole(id uint, role models.Role) error
	SetChatID(id uint, chatID *int64) error
	CountAdmins() (int64, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) (*GormUserRepository, error) {
	// Автомиграция - создает таблицы если их нет
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, err
	}

	return &GormUserRepository{db: db}, nil
}

func (r *GormUserRepository) Create(user *models.User) error {
	// Проверяем, существует ли уже пользователь
	existing, err := r.GetByEmail(user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("user already exists")
	}

	return r.db.Create(user).Error
}

func (r *GormUserRepository) Update(user *models.User) error {
	result := r.db.Save(user)
	return result.Error
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	return r.first("id = ?", id)
}

func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first("email = ?", models.NormalizeEmail(email))
}

func (r *GormUserRepository) GetByChatID(chatID int64) (*models.User, error) {
	return r.first("chat_id = ?", chatID)
}

func (r *GormUserRepository) first(query string, args ...interface{}) (*models.User, error) {
	var user models.User
	result := r.db.Where(query, args...).First(&user)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

func (r *GormUserRepository) GetAll() ([]*models.User, error) {
	var users []*models.User
	result := r.db.Order("name ASC").Find(&users)

	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// GetWithChat возвращает активных пользователей с привязанным Telegram
func (r *GormUserRepository) GetWithChat() ([]*models.User, error) {
	var users []*models.User
	result := r.db.Where("chat_id IS NOT NULL AND active = ?", true).Order("id ASC").Find(&users)
	return users, result.Error
}

func (r *GormUserRepository) UpdateRole(id uint, role models.Role) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}

	return nil
}

func (r *GormUserRepository) SetChatID(id uint, chatID *int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if chatID != nil {
			// один чат — один пользователь
			if err := tx.Model(&models.User{}).
				Where("chat_id = ? AND id <> ?", *chatID, id).
				Update("chat_id", nil).Error; err != nil {
				return err
			}
		}
		result := tx.Model(&models.User{}).Where("id = ?", id).Update("chat_id", chatID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("user not found")
		}
		return nil
	})
}

func (r *GormUserRepository) CountAdmins() (int64, error) {
	var count int64
	result := r.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	return count, result.Error
}
