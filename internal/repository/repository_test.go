package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lexdesk/internal/models"
	"lexdesk/internal/testutil"
	"lexdesk/pkg/civil"
)

type fixture struct {
	db       *gorm.DB
	users    *GormUserRepository
	sessions *GormSessionRepository
	clients  *GormClientRepository
	entries  *GormTimesheetRepository
	leave    *GormLeavePeriodRepository
	days     *GormNonWorkingDayRepository
	docs     *GormBillingDocumentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	f := &fixture{db: db}
	var err error
	f.users, err = NewGormUserRepository(db)
	require.NoError(t, err)
	f.sessions, err = NewGormSessionRepository(db)
	require.NoError(t, err)
	f.clients, err = NewGormClientRepository(db)
	require.NoError(t, err)
	f.entries, err = NewGormTimesheetRepository(db)
	require.NoError(t, err)
	f.leave, err = NewGormLeavePeriodRepository(db)
	require.NoError(t, err)
	f.days, err = NewGormNonWorkingDayRepository(db)
	require.NoError(t, err)
	f.docs, err = NewGormBillingDocumentRepository(db)
	require.NoError(t, err)
	return f
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: email, PasswordHash: "x", Role: models.RoleLawyer, Active: true}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *fixture) client(t *testing.T, name string) *models.Client {
	t.Helper()
	c := &models.Client{Name: name, HourlyRate: decimal.NewFromInt(150), Currency: "EUR", Active: true}
	require.NoError(t, f.clients.Create(c))
	return c
}

func (f *fixture) entry(t *testing.T, userID, clientID uint, date string, minutes int) *models.TimesheetEntry {
	t.Helper()
	e := &models.TimesheetEntry{
		UserID:      userID,
		ClientID:    clientID,
		Date:        civil.MustParseDate(date),
		Minutes:     minutes,
		Description: "drafting",
		Billable:    true,
	}
	require.NoError(t, f.entries.Create(e))
	return e
}

func d(s string) civil.Date { return civil.MustParseDate(s) }

func TestUserRepository(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "anna@firm.bg")

	got, err := f.users.GetByEmail(" Anna@Firm.BG ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	missing, err := f.users.GetByID(999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = f.users.Create(&models.User{Email: "anna@firm.bg", Name: "dup", PasswordHash: "x", Role: models.RoleLawyer})
	assert.Error(t, err)

	require.NoError(t, f.users.UpdateRole(u.ID, models.RoleAdmin))
	count, err := f.users.CountAdmins()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.Error(t, f.users.UpdateRole(999, models.RoleAdmin))
}

func TestUserRepository_SetChatIDMovesChat(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a@firm.bg")
	b := f.user(t, "b@firm.bg")
	chat := int64(4242)

	require.NoError(t, f.users.SetChatID(a.ID, &chat))
	require.NoError(t, f.users.SetChatID(b.ID, &chat))

	owner, err := f.users.GetByChatID(chat)
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, b.ID, owner.ID)

	withChat, err := f.users.GetWithChat()
	require.NoError(t, err)
	require.Len(t, withChat, 1)
	assert.Equal(t, b.ID, withChat[0].ID)
}

func TestSessionRepository(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@firm.bg")
	now := time.Date(2026, 1, 28, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.sessions.Create(&models.Session{Token: "live", UserID: u.ID, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, f.sessions.Create(&models.Session{Token: "old", UserID: u.ID, ExpiresAt: now.Add(-time.Hour)}))

	s, err := f.sessions.GetByToken("live")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "a@firm.bg", s.User.Email)

	removed, err := f.sessions.DeleteExpired(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	require.NoError(t, f.sessions.DeleteByUserID(u.ID))
	s, err = f.sessions.GetByToken("live")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestClientRepository_Topics(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Acme Ltd")

	require.NoError(t, f.clients.CreateTopic(&models.Topic{ClientID: c.ID, Name: "Litigation", Active: true}))
	require.NoError(t, f.clients.CreateTopic(&models.Topic{ClientID: c.ID, Name: "Corporate", Active: true}))
	assert.Error(t, f.clients.CreateTopic(&models.Topic{ClientID: c.ID, Name: "Litigation", Active: true}))

	byName, err := f.clients.GetByName("acme ltd")
	require.NoError(t, err)
	require.NotNil(t, byName)

	topic, err := f.clients.GetTopicByName(c.ID, "litigation")
	require.NoError(t, err)
	require.NotNil(t, topic)

	loaded, err := f.clients.GetByID(c.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Topics, 2)
	assert.True(t, loaded.HourlyRate.Equal(decimal.NewFromInt(150)))
}

func TestTimesheetRepository_Aggregates(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@firm.bg")
	c := f.client(t, "Acme")

	f.entry(t, u.ID, c.ID, "2026-01-26", 300)
	f.entry(t, u.ID, c.ID, "2026-01-26", 180)
	f.entry(t, u.ID, c.ID, "2026-01-27", 420)
	f.entry(t, u.ID, c.ID, "2026-02-02", 480)

	byDate, err := f.entries.MinutesByDate(u.ID, d("2026-01-01"), d("2026-01-31"))
	require.NoError(t, err)
	assert.Equal(t, map[civil.Date]int{d("2026-01-26"): 480, d("2026-01-27"): 420}, byDate)

	submitted, err := f.entries.SubmittedDates(u.ID, d("2026-01-01"), d("2026-02-28"), 480)
	require.NoError(t, err)
	assert.Equal(t, []civil.Date{d("2026-01-26"), d("2026-02-02")}, submitted)

	list, err := f.entries.GetByUserAndPeriod(u.ID, d("2026-01-26"), d("2026-01-27"))
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestTimesheetRepository_DailyLimit(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@firm.bg")
	c := f.client(t, "Acme")

	first := f.entry(t, u.ID, c.ID, "2026-01-26", 1000)
	f.entry(t, u.ID, c.ID, "2026-01-26", 400)

	extra := &models.TimesheetEntry{
		UserID: u.ID, ClientID: c.ID, Date: d("2026-01-26"), Minutes: 41, Description: "late call", Billable: true,
	}
	assert.ErrorIs(t, f.entries.Create(extra), ErrDailyLimit)
	assert.Zero(t, extra.ID)

	extra.Minutes = 40
	require.NoError(t, f.entries.Create(extra))

	// собственные минуты записи при правке не учитываются повторно
	first.Minutes = 1001
	assert.ErrorIs(t, f.entries.Update(first), ErrDailyLimit)
	first.Minutes = 999
	require.NoError(t, f.entries.Update(first))

	// перенос на другой день проверяет новый день
	moved := f.entry(t, u.ID, c.ID, "2026-01-27", 60)
	moved.Date = d("2026-01-26")
	assert.ErrorIs(t, f.entries.Update(moved), ErrDailyLimit)

	list, err := f.entries.GetByUserAndPeriod(u.ID, d("2026-01-26"), d("2026-01-26"))
	require.NoError(t, err)
	total := 0
	for _, e := range list {
		total += e.Minutes
	}
	assert.Equal(t, 1439, total)
}

func TestTimesheetRepository_RejectsInvalid(t *testing.T) {
	f := newFixture(t)
	err := f.entries.Create(&models.TimesheetEntry{UserID: 1, ClientID: 1, Date: d("2026-01-26")})
	assert.Error(t, err)
}

func TestLeavePeriodRepository_Conflicts(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@firm.bg")

	p := &models.LeavePeriod{
		UserID: u.ID, StartDate: d("2026-02-02"), EndDate: d("2026-02-06"),
		Type: models.LeaveTypeVacation, Status: models.LeaveStatusApproved,
	}
	require.NoError(t, f.leave.Create(p))
	require.NoError(t, f.leave.Create(&models.LeavePeriod{
		UserID: u.ID, StartDate: d("2026-03-02"), EndDate: d("2026-03-02"),
		Type: models.LeaveTypeDayOff, Status: models.LeaveStatusRejected,
	}))

	conflict, err := f.leave.HasConflict(u.ID, d("2026-02-06"), d("2026-02-09"), 0)
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = f.leave.HasConflict(u.ID, d("2026-02-06"), d("2026-02-09"), p.ID)
	require.NoError(t, err)
	assert.False(t, conflict)

	conflict, err = f.leave.HasConflict(u.ID, d("2026-03-02"), d("2026-03-02"), 0)
	require.NoError(t, err)
	assert.False(t, conflict, "rejected requests do not block")

	approved, err := f.leave.GetApprovedOverlapping(u.ID, d("2026-01-01"), d("2026-02-03"))
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	current, err := f.leave.GetCurrentLeave(u.ID, d("2026-02-04"))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, p.ID, current.ID)

	pending, err := f.leave.GetByStatus(models.LeaveStatusRejected)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestNonWorkingDayRepository_Upsert(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.days.BulkUpsert([]models.NonWorkingDay{
		{Date: d("2026-01-01")},
		{Date: d("2026-03-03"), Name: "Liberation Day"},
	}))
	require.NoError(t, f.days.BulkUpsert([]models.NonWorkingDay{
		{Date: d("2026-01-01"), Name: "New Year"},
	}))

	all, err := f.days.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "New Year", all[0].Name)

	ok, err := f.days.IsNonWorkingDay(d("2026-03-03"))
	require.NoError(t, err)
	assert.True(t, ok)

	inJan, err := f.days.GetByPeriod(d("2026-01-01"), d("2026-01-31"))
	require.NoError(t, err)
	assert.Len(t, inJan, 1)

	require.NoError(t, f.days.Delete(d("2026-03-03")))
	assert.ErrorIs(t, f.days.Delete(d("2026-03-03")), gorm.ErrRecordNotFound)
}

func TestBillingDocumentRepository_MarksEntries(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@firm.bg")
	c := f.client(t, "Acme")
	e1 := f.entry(t, u.ID, c.ID, "2026-01-26", 90)
	e2 := f.entry(t, u.ID, c.ID, "2026-01-27", 30)

	doc := &models.BillingDocument{
		Number: "SD-1", Kind: models.DocumentKindServiceDescription, ClientID: c.ID,
		PeriodStart: d("2026-01-01"), PeriodEnd: d("2026-01-31"),
		TotalMinutes: 120, Amount: decimal.NewFromInt(300), Currency: "EUR", IssuedBy: u.ID,
	}
	lines := []models.DocumentLine{
		{EntryID: e1.ID, Date: e1.Date, Lawyer: "a", Description: "drafting", Minutes: 90, Amount: decimal.NewFromInt(225)},
		{EntryID: e2.ID, Date: e2.Date, Lawyer: "a", Description: "drafting", Minutes: 30, Amount: decimal.NewFromInt(75)},
	}
	require.NoError(t, f.docs.Create(doc, lines, []uint{e1.ID, e2.ID}))

	open, err := f.entries.GetForBilling(c.ID, d("2026-01-01"), d("2026-01-31"), true)
	require.NoError(t, err)
	assert.Empty(t, open)

	all, err := f.entries.GetForBilling(c.ID, d("2026-01-01"), d("2026-01-31"), false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, doc.ID, *all[0].BillingDocumentID)

	stored, err := f.docs.GetLines(doc.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, e1.ID, stored[0].EntryID)
	assert.Equal(t, d("2026-01-26"), stored[0].Date)
	assert.True(t, stored[1].Amount.Equal(decimal.NewFromInt(75)))

	byNumber, err := f.docs.GetByNumber("SD-1")
	require.NoError(t, err)
	require.NotNil(t, byNumber)
	assert.Equal(t, "Acme", byNumber.Client.Name)

	again := &models.BillingDocument{
		Number: "SD-2", Kind: models.DocumentKindInvoice, ClientID: c.ID,
		PeriodStart: d("2026-01-01"), PeriodEnd: d("2026-01-31"),
		Amount: decimal.Zero, Currency: "EUR", IssuedBy: u.ID,
	}
	againLines := []models.DocumentLine{{EntryID: e1.ID, Date: e1.Date, Lawyer: "a", Description: "drafting", Minutes: 90}}
	assert.ErrorIs(t, f.docs.Create(again, againLines, []uint{e1.ID}), ErrAlreadyBilled)

	byNumber, err = f.docs.GetByNumber("SD-2")
	require.NoError(t, err)
	assert.Nil(t, byNumber, "failed document must be rolled back")

	var lineCount int64
	require.NoError(t, f.db.Model(&models.DocumentLine{}).Count(&lineCount).Error)
	assert.Equal(t, int64(2), lineCount, "lines of the failed document must be rolled back")

	docs, err := f.docs.GetAll(c.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
