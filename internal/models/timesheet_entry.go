package models

import (
	"fmt"
	"strings"
	"time"

	"lexdesk/pkg/civil"
)

// MaxMinutesPerDay — больше суток за день не записать
const MaxMinutesPerDay = 24 * 60

type TimesheetEntry struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	UserID      uint       `gorm:"not null;index:idx_entries_user_date" json:"user_id"`
	Date        civil.Date `gorm:"type:varchar(10);not null;index:idx_entries_user_date;index" json:"date"`
	ClientID    uint       `gorm:"not null;index" json:"client_id"`
	TopicID     *uint      `gorm:"index" json:"topic_id,omitempty"`
	Minutes     int        `gorm:"not null" json:"minutes"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Billable    bool       `gorm:"not null" json:"billable"`

	// Заполняется, когда запись попала в счет
	BillingDocumentID *uint `gorm:"index" json:"billing_document_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Client Client `gorm:"foreignKey:ClientID" json:"-"`
	Topic  *Topic `gorm:"foreignKey:TopicID" json:"-"`
}

func (TimesheetEntry) TableName() string {
	return "timesheet_entries"
}

// Hours возвращает длительность в часах
func (e *TimesheetEntry) Hours() float64 {
	return float64(e.Minutes) / 60
}

// IsBilled — запись уже в счете и не редактируется
func (e *TimesheetEntry) IsBilled() bool {
	return e.BillingDocumentID != nil
}

// Duration возвращает продолжительность как строку
func (e *TimesheetEntry) Duration() string {
	return FormatMinutes(e.Minutes)
}

// IsValid проверяет валидность данных
func (e *TimesheetEntry) IsValid() bool {
	if e.UserID == 0 || e.ClientID == 0 {
		return false
	}
	if e.Date.IsZero() {
		return false
	}
	if e.Minutes <= 0 || e.Minutes > MaxMinutesPerDay {
		return false
	}
	return strings.TrimSpace(e.Description) != ""
}

// FormatMinutes печатает минуты как "7ч 30м"
func FormatMinutes(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%s%dч", sign, hours)
	}
	return fmt.Sprintf("%s%dч %dм", sign, hours, rest)
}
