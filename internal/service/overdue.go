package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"lexdesk/internal/logging"
	"lexdesk/internal/metrics"
	"lexdesk/internal/models"
	"lexdesk/internal/repository"
	"lexdesk/pkg/civil"
	"lexdesk/pkg/deadline"
)

// OverdueService собирает данные пользователя и передает их калькулятору просрочек
type OverdueService struct {
	users      repository.UserRepository
	entries    repository.TimesheetRepository
	leave      *LeaveService
	calc       *deadline.Calculator
	lookback   int
	minMinutes int
	metrics    *metrics.Metrics
	logger     *logrus.Logger

	// scan считает просрочки одного пользователя в ForAllUsers
	scan func(user *models.User, now time.Time) ([]civil.Date, error)
}

// UserOverdue — просроченные дни одного пользователя
type UserOverdue struct {
	UserID uint         `json:"user_id"`
	Name   string       `json:"name"`
	Email  string       `json:"email"`
	ChatID *int64       `json:"-"`
	Dates  []civil.Date `json:"dates"`
}

func NewOverdueService(
	users repository.UserRepository,
	entries repository.TimesheetRepository,
	leave *LeaveService,
	calc *deadline.Calculator,
	lookbackDays int,
	minSubmissionHours int,
	m *metrics.Metrics,
) *OverdueService {
	if lookbackDays < 0 {
		lookbackDays = 0
	}
	if minSubmissionHours <= 0 {
		minSubmissionHours = deadline.MinSubmissionHours
	}
	s := &OverdueService{
		users:      users,
		entries:    entries,
		leave:      leave,
		calc:       calc,
		lookback:   lookbackDays,
		minMinutes: minSubmissionHours * 60,
		metrics:    m,
		logger:     logging.New(),
	}
	s.scan = s.ForUser
	return s
}

// Calculator возвращает калькулятор дедлайнов
func (s *OverdueService) Calculator() *deadline.Calculator {
	return s.calc
}

// ForUser возвращает просроченные рабочие дни пользователя на момент now
func (s *OverdueService) ForUser(user *models.User, now time.Time) ([]civil.Date, error) {
	today := s.calc.Today(now)
	from := today.AddDays(-s.lookback)

	submitted, err := s.entries.SubmittedDates(user.ID, from, today, s.minMinutes)
	if err != nil {
		return nil, err
	}
	intervals, err := s.leave.ApprovedIntervals(user.ID, from, today)
	if err != nil {
		return nil, err
	}

	dates := s.calc.OverdueDates(now, deadline.NewDateSet(submitted...), s.lookback, intervals...)

	if s.metrics != nil {
		s.metrics.OverdueScans.Inc()
		s.metrics.OverdueDates.Add(float64(len(dates)))
	}
	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"overdue": deadline.Strings(dates),
	}).Debug("Overdue scan finished")
	return dates, nil
}

// ForAllUsers проверяет всех активных пользователей; в результат попадают только должники.
// Ошибка по одному пользователю пишется в лог и не прерывает обход.
func (s *OverdueService) ForAllUsers(now time.Time) ([]UserOverdue, error) {
	users, err := s.users.GetAll()
	if err != nil {
		return nil, err
	}

	result := []UserOverdue{}
	for _, user := range users {
		if !user.Active {
			continue
		}
		dates, err := s.scan(user, now)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).Warn("Overdue scan failed, skipping user")
			continue
		}
		if len(dates) == 0 {
			continue
		}
		result = append(result, UserOverdue{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			ChatID: user.ChatID,
			Dates:  dates,
		})
	}
	return result, nil
}
