package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexdesk/pkg/civil"
)

func TestLogEntry_Validation(t *testing.T) {
	e := newEnv(t, instant(t, "2026-01-28T11:00:00Z"))

	cases := map[string]EntryInput{
		"future date":    {Date: day("2026-01-29"), Minutes: 60, ClientID: e.acme.ID, Description: "x"},
		"zero minutes":   {Date: day("2026-01-27"), Minutes: 0, ClientID: e.acme.ID, Description: "x"},
		"over a day":     {Date: day("2026-01-27"), Minutes: 1441, ClientID: e.acme.ID, Description: "x"},
		"no text":        {Date: day("2026-01-27"), Minutes: 60, ClientID: e.acme.ID, Description: " "},
		"unknown client": {Date: day("2026-01-27"), Minutes: 60, ClientID: 999, Description: "x"},
		"no date":        {Minutes: 60, ClientID: e.acme.ID, Description: "x"},
	}
	for name, in := range cases {
		_, err := e.timesheets.LogEntry(e.lawyer, in)
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestLogEntry_TopicMustBelongToClient(t *testing.T) {
	e := newEnv(t, instant(t, "2026-01-28T11:00:00Z"))
	other, err := e.clients.CreateClient(ClientInput{Name: "Other"})
	require.NoError(t, err)
	topic, err := e.clients.CreateTopic(other.ID, "Tax", "")
	require.NoError(t, err)

	_, err = e.timesheets.LogEntry(e.lawyer, EntryInput{
		Date: day("2026-01-27"), Minutes: 60, ClientID: e.acme.ID, TopicID: &topic.ID, Description: "x",
	})
	assert.ErrorIs(t, err, ErrValidation)

	entry, err := e.timesheets.LogEntry(e.lawyer, EntryInput{
		Date: day("2026-01-27"), Minutes: 60, ClientID: other.ID, TopicID: &topic.ID, Description: "x",
	})
	require.NoError(t, err)
	assert.True(t, entry.Billable)
}

func TestLogEntry_DayLimit(t *testing.T) {
	e := newEnv(t, instant(t, "2026-01-28T11:00:00Z"))
	e.log(t, e.lawyer, "2026-01-27", 1000)

	_, err := e.timesheets.LogEntry(e.lawyer, EntryInput{
		Date: day("2026-01-27"), Minutes: 500, ClientID: e.acme.ID, Description: "x",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateEntry_DayLimit(t *testing.T) {
	e := newEnv(t, instant(t, "2026-01-28T11:00:00Z"))
	e.log(t, e.lawyer, "2026-01-27", 1000)
	entry := e.log(t, e.lawyer, "2026-01-26", 600)

	_, err := e.timesheets.UpdateEntry(e.lawyer, entry.ID, EntryInput{
		Date: day("2026-01-27"), Minutes: 600, ClientID: e.acme.ID, Description: "moved",
	})
	assert.ErrorIs(t, err, ErrValidation)

	day26, err := e.timesheets.DaySummary(e.lawyer.ID, day("2026-01-26"))
	require.NoError(t, err)
	assert.Equal(t, 600, day26.TotalMinutes, "rejected update must not move the entry")

	updated, err := e.timesheets.UpdateEntry(e.lawyer, entry.ID, EntryInput{
		Date: day("2026-01-27"), Minutes: 440, ClientID: e.acme.ID, Description: "moved",
	})
	require.NoError(t, err)
	assert.Equal(t, day("2026-01-27"), updated.Date)
}

func TestUpdateAndDeleteEntry_Ownership(t *testing.T) {
	e := newEnv(t, instant(t, "2026-01-28T11:00:00Z"))
	intruder, err := e.users.CreateUser("boris@firm.bg", "Boris", testPassword, "")
	require.NoError(t, err)
	entry := e.log(t, e.lawyer, "2026-01-27", 120)

	in := EntryInput{Date: day("2026-01-27"), Minutes: 1440, ClientID: e.acme.ID, Description: "full day"}
	_, err = e.timesheets.UpdateEntry(intruder, entry.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := e.timesheets.UpdateEntry(e.lawyer, entry.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 1440, updated.Minutes)

	assert.ErrorIs(t, e.timesheets.DeleteEntry(intruder, entry.ID), ErrForbidden)
	require.NoError(t, e.timesheets.DeleteEntry(e.admin, entry.ID))
	assert.ErrorIs(t, e.timesheets.DeleteEntry(e.admin, entry.ID), ErrNotFound)
}

func TestBilledEntryIsImmutable(t *testing.T) {
	e := newEnv(t, instant(t, "2026-01-28T11:00:00Z"))
	entry := e.log(t, e.lawyer, "2026-01-27", 120)

	_, err := e.billing.IssueInvoice(e.acme.ID, day("2026-01-01"), day("2026-01-31"), e.admin)
	require.NoError(t, err)

	_, err = e.timesheets.UpdateEntry(e.lawyer, entry.ID, EntryInput{
		Date: day("2026-01-27"), Minutes: 60, ClientID: e.acme.ID, Description: "x",
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, e.timesheets.DeleteEntry(e.lawyer, entry.ID), ErrConflict)
}

func TestDaySummary(t *testing.T) {
	e := newEnv(t, instant(t, "2026-01-28T11:00:00Z"))
	e.log(t, e.lawyer, "2026-01-26", 300)
	e.log(t, e.lawyer, "2026-01-26", 180)
	e.log(t, e.lawyer, "2026-01-27", 420)

	monday, err := e.timesheets.DaySummary(e.lawyer.ID, day("2026-01-26"))
	require.NoError(t, err)
	assert.Equal(t, 480, monday.TotalMinutes)
	assert.True(t, monday.Submitted)
	assert.False(t, monday.Overdue)
	assert.Len(t, monday.Entries, 2)

	tuesday, err := e.timesheets.DaySummary(e.lawyer.ID, day("2026-01-27"))
	require.NoError(t, err)
	assert.False(t, tuesday.Submitted)
	assert.True(t, tuesday.Overdue)
	assert.Equal(t, instant(t, "2026-01-28T10:00:00Z"), tuesday.Deadline)

	today, err := e.timesheets.DaySummary(e.lawyer.ID, day("2026-01-28"))
	require.NoError(t, err)
	assert.False(t, today.Overdue)
}

func TestMonthlySummary(t *testing.T) {
	e := newEnv(t, instant(t, "2026-01-28T11:00:00Z"))
	_, err := e.holidays.AddHoliday(day("2026-01-01"), "New Year")
	require.NoError(t, err)
	e.approvedLeave(t, e.lawyer, "2026-01-26", "2026-01-27")

	e.log(t, e.lawyer, "2026-01-05", 480)
	e.log(t, e.lawyer, "2026-01-06", 480)
	billable := false
	_, err = e.timesheets.LogEntry(e.lawyer, EntryInput{
		Date: day("2026-01-06"), Minutes: 120, ClientID: e.acme.ID, Description: "admin", Billable: &billable,
	})
	require.NoError(t, err)

	m, err := e.timesheets.MonthlySummary(e.lawyer.ID, 2026, time.January)
	require.NoError(t, err)

	// 22 будних дня, минус праздник и два дня больничного
	assert.Equal(t, 19, m.WorkingDays)
	assert.Equal(t, 2, m.LeaveDays)
	assert.Equal(t, 19*480, m.RequiredMinutes)
	assert.Equal(t, 1080, m.WorkedMinutes)
	assert.Equal(t, 960, m.BillableMinutes)
	assert.Equal(t, 19*480-1080, m.DeficitMinutes)
	assert.Zero(t, m.OvertimeMinutes)
	assert.Equal(t, []DayMinutes{
		{Date: civil.MustParseDate("2026-01-05"), Minutes: 480},
		{Date: civil.MustParseDate("2026-01-06"), Minutes: 600},
	}, m.Days)

	_, err = e.timesheets.MonthlySummary(e.lawyer.ID, 2026, 13)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMonthlySummary_December(t *testing.T) {
	e := newEnv(t, instant(t, "2026-01-28T11:00:00Z"))
	m, err := e.timesheets.MonthlySummary(e.lawyer.ID, 2025, time.December)
	require.NoError(t, err)
	assert.Equal(t, 23, m.WorkingDays)
	assert.Equal(t, 23*480, m.DeficitMinutes)
}
