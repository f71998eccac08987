package models

import (
	"net/mail"
	"strings"
	"time"
)

type Role string

const (
	RoleLawyer Role = "lawyer"
	RoleAdmin  Role = "admin"
)

// Valid проверяет, что роль известна.
func (r Role) Valid() bool {
	return r == RoleLawyer || r == RoleAdmin
}

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"not null" json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);default:'lawyer'" json:"role"`
	ChatID       *int64    `gorm:"uniqueIndex" json:"chat_id,omitempty"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasChat — привязан ли Telegram
func (u *User) HasChat() bool {
	return u.ChatID != nil && *u.ChatID != 0
}

// NormalizeEmail приводит email к нижнему регистру
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValid проверяет валидность данных
func (u *User) IsValid() bool {
	if strings.TrimSpace(u.Name) == "" {
		return false
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return false
	}
	return u.Role.Valid()
}

// TableName задает имя таблицы в БД
func (User) TableName() string {
	return "users"
}
