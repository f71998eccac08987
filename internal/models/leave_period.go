package models

import (
	"time"

	"lexdesk/pkg/civil"
	"lexdesk/pkg/deadline"
)

type LeavePeriod struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	StartDate    civil.Date `gorm:"type:varchar(10);not null;index" json:"start_date"`
	EndDate      civil.Date `gorm:"type:varchar(10);not null;index" json:"end_date"`
	Type         string     `gorm:"type:varchar(20);not null" json:"type"` // vacation, sick_leave, day_off
	Status       string     `gorm:"type:varchar(20);not null;index" json:"status"`
	Reason       string     `json:"reason"`
	ReviewedBy   *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	RejectReason string     `json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (LeavePeriod) TableName() string {
	return "leave_periods"
}

const (
	LeaveTypeVacation  = "vacation"
	LeaveTypeSickLeave = "sick_leave"
	LeaveTypeDayOff    = "day_off"
)

const (
	LeaveStatusPending   = "pending"
	LeaveStatusApproved  = "approved"
	LeaveStatusRejected  = "rejected"
	LeaveStatusCancelled = "cancelled"
)

// IsValidLeaveType проверяет тип отсутствия
func IsValidLeaveType(t string) bool {
	switch t {
	case LeaveTypeVacation, LeaveTypeSickLeave, LeaveTypeDayOff:
		return true
	}
	return false
}

// Interval возвращает период для расчета просрочек
func (p *LeavePeriod) Interval() deadline.Interval {
	return deadline.Interval{Start: p.StartDate, End: p.EndDate}
}

// Days — число календарных дней включительно
func (p *LeavePeriod) Days() int {
	return p.StartDate.DaysUntil(p.EndDate) + 1
}

func (p *LeavePeriod) IsPending() bool {
	return p.Status == LeaveStatusPending
}

func (p *LeavePeriod) IsApproved() bool {
	return p.Status == LeaveStatusApproved
}

// IsValid проверяет валидность данных
func (p *LeavePeriod) IsValid() bool {
	if p.UserID == 0 || p.StartDate.IsZero() || p.EndDate.IsZero() {
		return false
	}
	if p.EndDate.Before(p.StartDate) {
		return false
	}
	return IsValidLeaveType(p.Type)
}
