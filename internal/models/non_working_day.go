package models

import (
	"time"

	"lexdesk/pkg/civil"
)

// NonWorkingDay — официальный праздник
type NonWorkingDay struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Date      civil.Date `gorm:"type:varchar(10);uniqueIndex;not null" json:"date"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (NonWorkingDay) TableName() string {
	return "non_working_days"
}
