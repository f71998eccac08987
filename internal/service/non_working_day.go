package service

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"lexdesk/internal/logging"
	"lexdesk/internal/models"
	"lexdesk/internal/repository"
	"lexdesk/pkg/civil"
	"lexdesk/pkg/deadline"
	"lexdesk/pkg/holidays"
)

// NonWorkingDayService хранит праздники в базе и держит их копию в памяти
// для калькулятора дедлайнов.
type NonWorkingDayService struct {
	repo   repository.NonWorkingDayRepository
	logger *logrus.Logger

	mu    sync.RWMutex
	cache deadline.DateSet
}

func NewNonWorkingDayService(repo repository.NonWorkingDayRepository) (*NonWorkingDayService, error) {
	s := &NonWorkingDayService{
		repo:   repo,
		logger: logging.New(),
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh перечитывает праздники из базы
func (s *NonWorkingDayService) Refresh() error {
	days, err := s.repo.GetAll()
	if err != nil {
		return fmt.Errorf("loading non-working days: %w", err)
	}
	set := deadline.NewDateSet()
	for _, d := range days {
		set.Add(d.Date)
	}

	s.mu.Lock()
	s.cache = set
	s.mu.Unlock()
	return nil
}

// IsHoliday подходит для deadline.WithHolidays
func (s *NonWorkingDayService) IsHoliday(d civil.Date) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.Has(d)
}

// LoadCalendars загружает YAML-календари или производственный календарь JSON
func (s *NonWorkingDayService) LoadCalendars(path string) (int, error) {
	days, err := holidays.Load(path)
	if err != nil {
		return 0, err
	}
	return s.Import(days)
}

// Import сохраняет праздники; существующие даты обновляются
func (s *NonWorkingDayService) Import(days []holidays.Holiday) (int, error) {
	days = holidays.Dedupe(days)

	records := make([]models.NonWorkingDay, 0, len(days))
	for _, h := range days {
		records = append(records, models.NonWorkingDay{Date: h.Date, Name: h.Name})
	}

	if err := s.repo.BulkUpsert(records); err != nil {
		return 0, fmt.Errorf("saving non-working days: %w", err)
	}
	if err := s.Refresh(); err != nil {
		return 0, err
	}

	s.logger.WithField("count", len(records)).Info("Non-working days imported")
	return len(records), nil
}

func (s *NonWorkingDayService) AddHoliday(date civil.Date, name string) (*models.NonWorkingDay, error) {
	if date.IsZero() {
		return nil, invalidf("date is required")
	}
	day := models.NonWorkingDay{Date: date, Name: name}
	if err := s.repo.BulkUpsert([]models.NonWorkingDay{day}); err != nil {
		return nil, err
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"date": date.String(), "name": name}).Info("Holiday added")
	return s.repo.GetByDate(date)
}

func (s *NonWorkingDayService) DeleteHoliday(date civil.Date) error {
	existing, err := s.repo.GetByDate(date)
	if err != nil {
		return err
	}
	if existing == nil {
		return notFoundf("holiday %s", date)
	}
	if err := s.repo.Delete(date); err != nil {
		return err
	}
	s.logger.WithField("date", date.String()).Info("Holiday deleted")
	return s.Refresh()
}

// List возвращает праздники периода; нулевые границы означают все
func (s *NonWorkingDayService) List(from, to civil.Date) ([]models.NonWorkingDay, error) {
	if from.IsZero() || to.IsZero() {
		return s.repo.GetAll()
	}
	return s.repo.GetByPeriod(from, to)
}
