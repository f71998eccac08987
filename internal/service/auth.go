package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lexdesk/internal/logging"
	"lexdesk/internal/models"
	"lexdesk/internal/repository"
)

// AuthService выдает и проверяет токены сессий
type AuthService struct {
	users    *UserService
	sessions repository.SessionRepository
	ttl      time.Duration
	now      func() time.Time
	logger   *logrus.Logger
}

func NewAuthService(users *UserService, sessions repository.SessionRepository, ttl time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
		logger:   logging.New(),
	}
}

// Login проверяет пароль и открывает сессию
func (s *AuthService) Login(email, password string) (*models.Session, error) {
	user, err := s.users.Authenticate(email, password)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}
	session.User = *user

	s.logger.WithField("user_id", user.ID).Info("Session opened")
	return session, nil
}

// Resolve возвращает владельца токена. Просроченная сессия удаляется.
func (s *AuthService) Resolve(token string, now time.Time) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	session, err := s.sessions.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnauthorized
	}
	if session.IsExpired(now) {
		if err := s.sessions.Delete(token); err != nil {
			s.logger.WithError(err).Warn("Failed to delete expired session")
		}
		return nil, ErrUnauthorized
	}
	if !session.User.Active {
		return nil, ErrUnauthorized
	}
	return &session.User, nil
}

func (s *AuthService) Logout(token string) error {
	return s.sessions.Delete(token)
}

// RevokeUser закрывает все сессии пользователя
func (s *AuthService) RevokeUser(userID uint) error {
	if err := s.sessions.DeleteByUserID(userID); err != nil {
		return err
	}
	s.logger.WithField("user_id", userID).Info("Sessions revoked")
	return nil
}

// PurgeExpired удаляет просроченные сессии
func (s *AuthService) PurgeExpired() (int64, error) {
	removed, err := s.sessions.DeleteExpired(s.now())
	if err == nil && removed > 0 {
		s.logger.WithField("removed", removed).Debug("Expired sessions purged")
	}
	return removed, err
}
