package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lexdesk/internal/logging"
	"lexdesk/internal/models"
	"lexdesk/internal/repository"
	"lexdesk/pkg/civil"
	"lexdesk/pkg/deadline"
)

type TimesheetService struct {
	entries    repository.TimesheetRepository
	clients    repository.ClientRepository
	leave      *LeaveService
	calc       *deadline.Calculator
	minMinutes int
	now        func() time.Time
	logger     *logrus.Logger
}

// EntryInput — данные записи; Billable по умолчанию true
type EntryInput struct {
	Date        civil.Date `json:"date"`
	Minutes     int        `json:"minutes"`
	ClientID    uint       `json:"client_id"`
	TopicID     *uint      `json:"topic_id,omitempty"`
	Description string     `json:"description"`
	Billable    *bool      `json:"billable,omitempty"`
}

// DaySummary — итог дня
type DaySummary struct {
	Date         civil.Date               `json:"date"`
	Entries      []*models.TimesheetEntry `json:"entries"`
	TotalMinutes int                      `json:"total_minutes"`
	Submitted    bool                     `json:"submitted"`
	Workday      bool                     `json:"workday"`
	OnLeave      bool                     `json:"on_leave"`
	Deadline     time.Time                `json:"deadline"`
	Overdue      bool                     `json:"overdue"`
}

// MonthlySummary — итог месяца против нормы
type MonthlySummary struct {
	Year            int          `json:"year"`
	Month           time.Month   `json:"month"`
	WorkingDays     int          `json:"working_days"`
	LeaveDays       int          `json:"leave_days"`
	RequiredMinutes int          `json:"required_minutes"`
	WorkedMinutes   int          `json:"worked_minutes"`
	BillableMinutes int          `json:"billable_minutes"`
	OvertimeMinutes int          `json:"overtime_minutes"`
	DeficitMinutes  int          `json:"deficit_minutes"`
	Days            []DayMinutes `json:"days"`
}

// DayMinutes — минуты за день месяца
type DayMinutes struct {
	Date    civil.Date `json:"date"`
	Minutes int        `json:"minutes"`
}

func NewTimesheetService(
	entries repository.TimesheetRepository,
	clients repository.ClientRepository,
	leave *LeaveService,
	calc *deadline.Calculator,
	minSubmissionHours int,
) *TimesheetService {
	if minSubmissionHours <= 0 {
		minSubmissionHours = deadline.MinSubmissionHours
	}
	return &TimesheetService{
		entries:    entries,
		clients:    clients,
		leave:      leave,
		calc:       calc,
		minMinutes: minSubmissionHours * 60,
		now:        time.Now,
		logger:     logging.New(),
	}
}

// MinMinutes — порог сдачи дня в минутах
func (s *TimesheetService) MinMinutes() int {
	return s.minMinutes
}

func (s *TimesheetService) validate(in EntryInput) (*models.Client, error) {
	if in.Date.IsZero() {
		return nil, invalidf("date is required")
	}
	if in.Date.After(s.calc.Today(s.now())) {
		return nil, invalidf("cannot log time for a future date %s", in.Date)
	}
	if in.Minutes <= 0 || in.Minutes > models.MaxMinutesPerDay {
		return nil, invalidf("minutes must be between 1 and %d", models.MaxMinutesPerDay)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, invalidf("description is required")
	}

	client, err := s.clients.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil || !client.Active {
		return nil, invalidf("client %d is unknown or inactive", in.ClientID)
	}
	if in.TopicID != nil {
		topic, err := s.clients.GetTopic(*in.TopicID)
		if err != nil {
			return nil, err
		}
		if topic == nil || topic.ClientID != client.ID {
			return nil, invalidf("topic %d does not belong to client %s", *in.TopicID, client.Name)
		}
	}
	return client, nil
}

// dayLimitError переводит отказ репозитория по лимиту суток в ошибку валидации
func dayLimitError(err error, date civil.Date) error {
	if errors.Is(err, repository.ErrDailyLimit) {
		return invalidf("day %s would exceed 24 hours", date)
	}
	return err
}

// LogEntry записывает время пользователя
func (s *TimesheetService) LogEntry(user *models.User, in EntryInput) (*models.TimesheetEntry, error) {
	if _, err := s.validate(in); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Rejected timesheet entry")
		return nil, err
	}

	entry := &models.TimesheetEntry{
		UserID:      user.ID,
		Date:        in.Date,
		ClientID:    in.ClientID,
		TopicID:     in.TopicID,
		Minutes:     in.Minutes,
		Description: strings.TrimSpace(in.Description),
		Billable:    in.Billable == nil || *in.Billable,
	}
	if err := s.entries.Create(entry); err != nil {
		if errors.Is(err, repository.ErrDailyLimit) {
			return nil, dayLimitError(err, in.Date)
		}
		return nil, fmt.Errorf("saving entry: %w", err)
	}
	return entry, nil
}

func (s *TimesheetService) editable(actor *models.User, id uint) (*models.TimesheetEntry, error) {
	entry, err := s.entries.GetByID(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, notFoundf("entry %d", id)
	}
	if entry.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if entry.IsBilled() {
		return nil, conflictf("entry %d is already invoiced", id)
	}
	return entry, nil
}

// UpdateEntry меняет запись (владелец или админ, только не выставленную в счет)
func (s *TimesheetService) UpdateEntry(actor *models.User, id uint, in EntryInput) (*models.TimesheetEntry, error) {
	entry, err := s.editable(actor, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.validate(in); err != nil {
		return nil, err
	}

	entry.Date = in.Date
	entry.ClientID = in.ClientID
	entry.TopicID = in.TopicID
	entry.Minutes = in.Minutes
	entry.Description = strings.TrimSpace(in.Description)
	if in.Billable != nil {
		entry.Billable = *in.Billable
	}
	if err := s.entries.Update(entry); err != nil {
		return nil, dayLimitError(err, in.Date)
	}

	s.logger.WithFields(logrus.Fields{"entry_id": id, "actor_id": actor.ID}).Info("Timesheet entry updated")
	return entry, nil
}

func (s *TimesheetService) DeleteEntry(actor *models.User, id uint) error {
	if _, err := s.editable(actor, id); err != nil {
		return err
	}
	if err := s.entries.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("entry %d", id)
		}
		return err
	}
	s.logger.WithFields(logrus.Fields{"entry_id": id, "actor_id": actor.ID}).Info("Timesheet entry deleted")
	return nil
}

func (s *TimesheetService) ListEntries(userID uint, from, to civil.Date) ([]*models.TimesheetEntry, error) {
	if to.Before(from) {
		return nil, invalidf("period end is before start")
	}
	return s.entries.GetByUserAndPeriod(userID, from, to)
}

// DaySummary возвращает записи и статус сдачи дня
func (s *TimesheetService) DaySummary(userID uint, date civil.Date) (*DaySummary, error) {
	entries, err := s.entries.GetByUserAndPeriod(userID, date, date)
	if err != nil {
		return nil, err
	}
	intervals, err := s.leave.ApprovedIntervals(userID, date, date)
	if err != nil {
		return nil, err
	}

	summary := &DaySummary{
		Date:     date,
		Entries:  entries,
		Workday:  s.calc.IsWorkday(date),
		OnLeave:  deadline.OnLeave(date, intervals),
		Deadline: s.calc.SubmissionDeadline(date),
	}
	for _, e := range entries {
		summary.TotalMinutes += e.Minutes
	}
	summary.Submitted = summary.TotalMinutes >= s.minMinutes
	summary.Overdue = !summary.Submitted && !summary.OnLeave && s.calc.IsOverdue(date, s.now())
	return summary, nil
}

// MonthlySummary сравнивает отработанное с нормой: рабочие дни
// (будни без праздников и одобренных отсутствий) по норме дня.
func (s *TimesheetService) MonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error) {
	if month < time.January || month > time.December {
		return nil, invalidf("invalid month %d", month)
	}
	first := civil.NewDate(year, month, 1)
	last := first.AddDays(first.DaysUntil(civil.NewDate(year, month+1, 1)) - 1)

	entries, err := s.entries.GetByUserAndPeriod(userID, first, last)
	if err != nil {
		return nil, err
	}
	intervals, err := s.leave.ApprovedIntervals(userID, first, last)
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{Year: year, Month: month}
	for d := first; !d.After(last); d = d.AddDays(1) {
		if !s.calc.IsWorkday(d) {
			continue
		}
		if deadline.OnLeave(d, intervals) {
			summary.LeaveDays++
			continue
		}
		summary.WorkingDays++
	}
	summary.RequiredMinutes = summary.WorkingDays * s.minMinutes

	byDate, err := s.entries.MinutesByDate(userID, first, last)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		summary.WorkedMinutes += e.Minutes
		if e.Billable {
			summary.BillableMinutes += e.Minutes
		}
	}
	for d := first; !d.After(last); d = d.AddDays(1) {
		if m, ok := byDate[d]; ok {
			summary.Days = append(summary.Days, DayMinutes{Date: d, Minutes: m})
		}
	}

	if diff := summary.WorkedMinutes - summary.RequiredMinutes; diff > 0 {
		summary.OvertimeMinutes = diff
	} else {
		summary.DeficitMinutes = -diff
	}
	return summary, nil
}
