package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lexdesk/internal/metrics"
	"lexdesk/internal/models"
	"lexdesk/internal/repository"
	"lexdesk/internal/testutil"
	"lexdesk/pkg/civil"
	"lexdesk/pkg/deadline"
)

const testPassword = "correct horse battery"

type env struct {
	users      *UserService
	auth       *AuthService
	clients    *ClientService
	holidays   *NonWorkingDayService
	leave      *LeaveService
	timesheets *TimesheetService
	overdue    *OverdueService
	billing    *BillingService
	metrics    *metrics.Metrics
	calc       *deadline.Calculator

	admin  *models.User
	lawyer *models.User
	acme   *models.Client
}

func newEnv(t *testing.T, now time.Time) *env {
	t.Helper()
	db := testutil.NewDB(t)

	userRepo, err := repository.NewGormUserRepository(db)
	require.NoError(t, err)
	sessionRepo, err := repository.NewGormSessionRepository(db)
	require.NoError(t, err)
	clientRepo, err := repository.NewGormClientRepository(db)
	require.NoError(t, err)
	entryRepo, err := repository.NewGormTimesheetRepository(db)
	require.NoError(t, err)
	leaveRepo, err := repository.NewGormLeavePeriodRepository(db)
	require.NoError(t, err)
	dayRepo, err := repository.NewGormNonWorkingDayRepository(db)
	require.NoError(t, err)
	docRepo, err := repository.NewGormBillingDocumentRepository(db)
	require.NoError(t, err)

	clock := func() time.Time { return now }
	e := &env{metrics: metrics.New()}

	e.users = NewUserService(userRepo)
	e.users.bcryptCost = bcrypt.MinCost
	e.auth = NewAuthService(e.users, sessionRepo, time.Hour)
	e.auth.now = clock
	e.clients = NewClientService(clientRepo, "eur")
	e.holidays, err = NewNonWorkingDayService(dayRepo)
	require.NoError(t, err)

	e.calc = deadline.NewCalculator(time.UTC, deadline.WithHolidays(e.holidays.IsHoliday))
	e.leave = NewLeaveService(leaveRepo, e.calc)
	e.leave.now = clock
	e.timesheets = NewTimesheetService(entryRepo, clientRepo, e.leave, e.calc, 8)
	e.timesheets.now = clock
	e.overdue = NewOverdueService(userRepo, entryRepo, e.leave, e.calc, 2, 8, e.metrics)
	e.billing = NewBillingService(docRepo, entryRepo, clientRepo, e.metrics)
	e.billing.now = clock

	e.admin, err = e.users.CreateUser("boss@firm.bg", "Boss", testPassword, models.RoleAdmin)
	require.NoError(t, err)
	e.lawyer, err = e.users.CreateUser("anna@firm.bg", "Anna", testPassword, models.RoleLawyer)
	require.NoError(t, err)
	e.acme, err = e.clients.CreateClient(ClientInput{Name: "Acme Ltd", HourlyRate: decimal.NewFromInt(150)})
	require.NoError(t, err)
	return e
}

func (e *env) log(t *testing.T, user *models.User, date string, minutes int) *models.TimesheetEntry {
	t.Helper()
	entry, err := e.timesheets.LogEntry(user, EntryInput{
		Date:        civil.MustParseDate(date),
		Minutes:     minutes,
		ClientID:    e.acme.ID,
		Description: "contract review",
	})
	require.NoError(t, err)
	return entry
}

func (e *env) approvedLeave(t *testing.T, user *models.User, start, end string) *models.LeavePeriod {
	t.Helper()
	p, err := e.leave.RequestLeave(user.ID, models.LeaveTypeSickLeave, civil.MustParseDate(start), civil.MustParseDate(end), "")
	require.NoError(t, err)
	p, err = e.leave.Approve(e.admin, p.ID)
	require.NoError(t, err)
	return p
}

func instant(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func day(s string) civil.Date { return civil.MustParseDate(s) }

var civilZero civil.Date
