// Package commands содержит команды CLI lexdesk.
package commands

import (
	"fmt"

	"gorm.io/gorm"

	"lexdesk/internal/api"
	"lexdesk/internal/config"
	"lexdesk/internal/logging"
	"lexdesk/internal/metrics"
	"lexdesk/internal/repository"
	"lexdesk/internal/service"
	"lexdesk/pkg/deadline"
)

// app — собранные зависимости одного запуска
type app struct {
	cfg     *config.Config
	db      *gorm.DB
	metrics *metrics.Metrics

	users      *service.UserService
	auth       *service.AuthService
	clients    *service.ClientService
	holidays   *service.NonWorkingDayService
	leave      *service.LeaveService
	timesheets *service.TimesheetService
	overdue    *service.OverdueService
	billing    *service.BillingService
}

func loadConfig() *config.Config {
	cfg := config.GetConfig()
	logging.SetLevel(cfg.LogLevel)
	return cfg
}

func newApp(cfg *config.Config) (*app, error) {
	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, db: db, metrics: metrics.New()}
	if err := a.wire(); err != nil {
		_ = repository.Close(db)
		return nil, err
	}
	return a, nil
}

func (a *app) wire() error {
	userRepo, err := repository.NewGormUserRepository(a.db)
	if err != nil {
		return fmt.Errorf("user repository: %w", err)
	}
	sessionRepo, err := repository.NewGormSessionRepository(a.db)
	if err != nil {
		return fmt.Errorf("session repository: %w", err)
	}
	clientRepo, err := repository.NewGormClientRepository(a.db)
	if err != nil {
		return fmt.Errorf("client repository: %w", err)
	}
	entryRepo, err := repository.NewGormTimesheetRepository(a.db)
	if err != nil {
		return fmt.Errorf("timesheet repository: %w", err)
	}
	leaveRepo, err := repository.NewGormLeavePeriodRepository(a.db)
	if err != nil {
		return fmt.Errorf("leave repository: %w", err)
	}
	dayRepo, err := repository.NewGormNonWorkingDayRepository(a.db)
	if err != nil {
		return fmt.Errorf("non-working day repository: %w", err)
	}
	docRepo, err := repository.NewGormBillingDocumentRepository(a.db)
	if err != nil {
		return fmt.Errorf("billing document repository: %w", err)
	}

	a.holidays, err = service.NewNonWorkingDayService(dayRepo)
	if err != nil {
		return fmt.Errorf("loading holidays: %w", err)
	}
	calc := a.cfg.Calculator(deadline.WithHolidays(a.holidays.IsHoliday))

	a.users = service.NewUserService(userRepo)
	a.auth = service.NewAuthService(a.users, sessionRepo, a.cfg.SessionTTL)
	a.clients = service.NewClientService(clientRepo, a.cfg.DefaultCurrency)
	a.leave = service.NewLeaveService(leaveRepo, calc)
	a.timesheets = service.NewTimesheetService(entryRepo, clientRepo, a.leave, calc, a.cfg.MinSubmissionHours)
	a.overdue = service.NewOverdueService(userRepo, entryRepo, a.leave, calc, a.cfg.LookbackDays, a.cfg.MinSubmissionHours, a.metrics)
	a.billing = service.NewBillingService(docRepo, entryRepo, clientRepo, a.metrics)
	return nil
}

func (a *app) services() api.Services {
	return api.Services{
		Users:      a.users,
		Auth:       a.auth,
		Clients:    a.clients,
		Timesheets: a.timesheets,
		Leave:      a.leave,
		Holidays:   a.holidays,
		Overdue:    a.overdue,
		Billing:    a.billing,
		Metrics:    a.metrics,
	}
}

func (a *app) close() {
	if err := repository.Close(a.db); err != nil {
		logging.New().WithError(err).Warn("Error closing database")
	}
}
