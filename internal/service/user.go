package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"lexdesk/internal/logging"
	"lexdesk/internal/models"
	"lexdesk/internal/repository"
)

// MinPasswordLength — минимальная длина пароля
const MinPasswordLength = 12

type UserService struct {
	repo       repository.UserRepository
	bcryptCost int
	logger     *logrus.Logger
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{
		repo:       repo,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logging.New(),
	}
}

// CreateUser создает пользователя с хешем пароля
func (s *UserService) CreateUser(email, name, password string, role models.Role) (*models.User, error) {
	if role == "" {
		role = models.RoleLawyer
	}
	user := &models.User{
		Email:  models.NormalizeEmail(email),
		Name:   strings.TrimSpace(name),
		Role:   role,
		Active: true,
	}
	if !user.IsValid() {
		return nil, invalidf("email, name and role (admin or lawyer) are required")
	}
	if len(password) < MinPasswordLength {
		return nil, invalidf("password must be at least %d characters", MinPasswordLength)
	}

	existing, err := s.repo.GetByEmail(user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflictf("user %s already exists", user.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	}).Info("User created")
	return user, nil
}

// Authenticate проверяет email и пароль
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		s.logger.WithField("email", models.NormalizeEmail(email)).Warn("Login for unknown or inactive user")
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WithField("user_id", user.ID).Warn("Wrong password")
		return nil, ErrUnauthorized
	}
	return user, nil
}

// GetUser возвращает пользователя по ID
func (s *UserService) GetUser(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFoundf("user %d", id)
	}
	return user, nil
}

// GetByChatID возвращает пользователя по привязанному чату
func (s *UserService) GetByChatID(chatID int64) (*models.User, error) {
	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFoundf("chat %d is not linked", chatID)
	}
	return user, nil
}

func (s *UserService) GetByEmail(email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFoundf("user %s", models.NormalizeEmail(email))
	}
	return user, nil
}

// ListUsers возвращает всех пользователей
func (s *UserService) ListUsers() ([]*models.User, error) {
	return s.repo.GetAll()
}

// ListWithChat — активные пользователи с Telegram
func (s *UserService) ListWithChat() ([]*models.User, error) {
	return s.repo.GetWithChat()
}

// UpdateRole меняет роль (только для админов). Последнего админа не разжаловать.
func (s *UserService) UpdateRole(actor *models.User, targetID uint, role models.Role) error {
	if actor == nil || !actor.IsAdmin() {
		return ErrForbidden
	}
	if !role.Valid() {
		return invalidf("unknown role %q", role)
	}

	target, err := s.GetUser(targetID)
	if err != nil {
		return err
	}
	if target.Role == role {
		return nil
	}
	if target.IsAdmin() && role != models.RoleAdmin {
		admins, err := s.repo.CountAdmins()
		if err != nil {
			return err
		}
		if admins <= 1 {
			return conflictf("cannot demote the last admin")
		}
	}

	if err := s.repo.UpdateRole(targetID, role); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id":  actor.ID,
		"target_id": targetID,
		"role":      role,
	}).Info("User role updated")
	return nil
}

// LinkChat привязывает Telegram-чат к учетной записи по email и паролю
func (s *UserService) LinkChat(email, password string, chatID int64) (*models.User, error) {
	user, err := s.Authenticate(email, password)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetChatID(user.ID, &chatID); err != nil {
		return nil, fmt.Errorf("linking chat: %w", err)
	}
	user.ChatID = &chatID

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "chat_id": chatID}).Info("Telegram chat linked")
	return user, nil
}

// UnlinkChat отвязывает Telegram
func (s *UserService) UnlinkChat(userID uint) error {
	return s.repo.SetChatID(userID, nil)
}

// InitializeAdmin создает администратора из конфига, если админов еще нет
func (s *UserService) InitializeAdmin(email, password string) error {
	if email == "" {
		return nil // Админ не задан в конфиге
	}

	admins, err := s.repo.CountAdmins()
	if err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		// Если пользователь существует, обновляем его роль на админа
		s.logger.WithField("email", existing.Email).Info("Promoting configured admin")
		return s.repo.UpdateRole(existing.ID, models.RoleAdmin)
	}

	if password == "" {
		return errors.New("ADMIN_PASSWORD is required to create the initial admin")
	}
	_, err = s.CreateUser(email, "Administrator", password, models.RoleAdmin)
	return err
}
