package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"lexdesk/internal/logging"
	"lexdesk/internal/models"
	"lexdesk/internal/repository"
	"lexdesk/pkg/civil"
	"lexdesk/pkg/deadline"
)

type LeaveService struct {
	repo   repository.LeavePeriodRepository
	calc   *deadline.Calculator
	now    func() time.Time
	logger *logrus.Logger
}

func NewLeaveService(repo repository.LeavePeriodRepository, calc *deadline.Calculator) *LeaveService {
	return &LeaveService{
		repo:   repo,
		calc:   calc,
		now:    time.Now,
		logger: logging.New(),
	}
}

// RequestLeave создает заявку на отсутствие в статусе pending.
// Отпуск можно запросить только на будущие даты, больничный и отгул — и на прошедшие.
func (s *LeaveService) RequestLeave(userID uint, leaveType string, start, end civil.Date, reason string) (*models.LeavePeriod, error) {
	if end.IsZero() {
		end = start
	}
	period := &models.LeavePeriod{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Type:      leaveType,
		Status:    models.LeaveStatusPending,
		Reason:    strings.TrimSpace(reason),
	}
	if !models.IsValidLeaveType(leaveType) {
		return nil, invalidf("unknown leave type %q", leaveType)
	}
	if !period.IsValid() {
		return nil, invalidf("end date cannot be before start date")
	}

	today := s.calc.Today(s.now())
	if leaveType == models.LeaveTypeVacation && start.Before(today) {
		return nil, invalidf("vacation can only be requested for future dates")
	}

	conflict, err := s.repo.HasConflict(userID, start, end, 0)
	if err != nil {
		return nil, fmt.Errorf("checking leave conflicts: %w", err)
	}
	if conflict {
		return nil, conflictf("period overlaps an existing leave request")
	}

	if err := s.repo.Create(period); err != nil {
		return nil, fmt.Errorf("creating leave request: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"leave_id": period.ID,
		"user_id":  userID,
		"type":     leaveType,
		"start":    start.String(),
		"end":      end.String(),
	}).Info("Leave requested")
	return period, nil
}

func (s *LeaveService) get(id uint) (*models.LeavePeriod, error) {
	period, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, notFoundf("leave request %d", id)
	}
	return period, nil
}

// Approve одобряет ожидающую заявку
func (s *LeaveService) Approve(admin *models.User, id uint) (*models.LeavePeriod, error) {
	return s.review(admin, id, models.LeaveStatusApproved, "")
}

// Reject отклоняет ожидающую заявку
func (s *LeaveService) Reject(admin *models.User, id uint, reason string) (*models.LeavePeriod, error) {
	return s.review(admin, id, models.LeaveStatusRejected, strings.TrimSpace(reason))
}

func (s *LeaveService) review(admin *models.User, id uint, status, rejectReason string) (*models.LeavePeriod, error) {
	if admin == nil || !admin.IsAdmin() {
		return nil, ErrForbidden
	}
	period, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !period.IsPending() {
		return nil, conflictf("leave request %d is %s", id, period.Status)
	}

	reviewedAt := s.now().UTC()
	period.Status = status
	period.ReviewedBy = &admin.ID
	period.ReviewedAt = &reviewedAt
	period.RejectReason = rejectReason

	if err := s.repo.Update(period); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"leave_id": id,
		"admin_id": admin.ID,
		"status":   status,
	}).Info("Leave reviewed")
	return period, nil
}

// Cancel отменяет заявку владельцем (или админом): ожидающую или одобренную, но еще не начавшуюся
func (s *LeaveService) Cancel(actor *models.User, id uint) (*models.LeavePeriod, error) {
	period, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if actor == nil || (period.UserID != actor.ID && !actor.IsAdmin()) {
		return nil, ErrForbidden
	}

	switch {
	case period.IsPending():
	case period.IsApproved() && period.StartDate.After(s.calc.Today(s.now())):
	default:
		return nil, conflictf("leave request %d can no longer be cancelled", id)
	}

	period.Status = models.LeaveStatusCancelled
	if err := s.repo.Update(period); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"leave_id": id, "user_id": actor.ID}).Info("Leave cancelled")
	return period, nil
}

func (s *LeaveService) ListForUser(userID uint) ([]*models.LeavePeriod, error) {
	return s.repo.GetByUserID(userID)
}

func (s *LeaveService) ListPending() ([]*models.LeavePeriod, error) {
	return s.repo.GetByStatus(models.LeaveStatusPending)
}

// CurrentLeave возвращает одобренное отсутствие на дату или nil
func (s *LeaveService) CurrentLeave(userID uint, date civil.Date) (*models.LeavePeriod, error) {
	return s.repo.GetCurrentLeave(userID, date)
}

// ApprovedIntervals возвращает одобренные периоды, пересекающие [from, to]
func (s *LeaveService) ApprovedIntervals(userID uint, from, to civil.Date) ([]deadline.Interval, error) {
	periods, err := s.repo.GetApprovedOverlapping(userID, from, to)
	if err != nil {
		return nil, err
	}
	intervals := make([]deadline.Interval, 0, len(periods))
	for _, p := range periods {
		intervals = append(intervals, p.Interval())
	}
	return intervals, nil
}
