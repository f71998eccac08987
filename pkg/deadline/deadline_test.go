package deadline

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexdesk/pkg/civil"
)

func sofia(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Sofia")
	require.NoError(t, err)
	return loc
}

func day(s string) civil.Date {
	return civil.MustParseDate(s)
}

func instant(t *testing.T, s string) time.Time {
	t.Helper()
	at, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return at
}

func TestIsWeekday(t *testing.T) {
	start := day("2026-01-01")
	for i := 0; i < 366; i++ {
		d := start.AddDays(i)
		wd := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
		expected := wd >= time.Monday && wd <= time.Friday
		assert.Equal(t, expected, IsWeekday(d), d.String())
	}
}

func TestSubmissionDeadline_UTCFixtures(t *testing.T) {
	calc := NewCalculator(time.UTC)

	assert.Equal(t, "2026-01-27T10:00:00Z", calc.SubmissionDeadline(day("2026-01-26")).Format(time.RFC3339))
	assert.Equal(t, "2026-01-30T10:00:00Z", calc.SubmissionDeadline(day("2026-01-29")).Format(time.RFC3339))
	// пятница переносится на понедельник
	assert.Equal(t, "2026-02-02T10:00:00Z", calc.SubmissionDeadline(day("2026-01-30")).Format(time.RFC3339))
}

func TestSubmissionDeadline_SofiaOffsets(t *testing.T) {
	calc := NewCalculator(sofia(t))

	// зима, UTC+2
	assert.Equal(t, "2026-01-27T08:00:00Z", calc.SubmissionDeadline(day("2026-01-26")).Format(time.RFC3339))
	// лето, UTC+3
	assert.Equal(t, "2026-07-07T07:00:00Z", calc.SubmissionDeadline(day("2026-07-06")).Format(time.RFC3339))
}

func TestSubmissionDeadline_UsesDeadlineDayOffset(t *testing.T) {
	calc := NewCalculator(sofia(t))

	// переход на летнее время 29.03.2026: пятница в зиме, понедельник уже в лете
	assert.Equal(t, "2026-03-30T07:00:00Z", calc.SubmissionDeadline(day("2026-03-27")).Format(time.RFC3339))
	assert.Equal(t, "2026-03-27T08:00:00Z", calc.SubmissionDeadline(day("2026-03-26")).Format(time.RFC3339))

	// возврат на зимнее 25.10.2026
	assert.Equal(t, "2026-10-26T08:00:00Z", calc.SubmissionDeadline(day("2026-10-23")).Format(time.RFC3339))
	assert.Equal(t, "2026-10-23T07:00:00Z", calc.SubmissionDeadline(day("2026-10-22")).Format(time.RFC3339))
}

func TestSubmissionDeadline_AlwaysTenLocalOnNextBusinessDay(t *testing.T) {
	loc := sofia(t)
	calc := NewCalculator(loc)
	start := day("2026-01-01")
	for i := 0; i < 366; i++ {
		d := start.AddDays(i)
		if !IsWeekday(d) {
			continue
		}
		local := calc.SubmissionDeadline(d).In(loc)
		assert.Equal(t, 10, local.Hour(), d.String())
		assert.Equal(t, 0, local.Minute(), d.String())

		want := d.AddDays(1)
		if d.Weekday() == time.Friday {
			want = d.AddDays(3)
			assert.Equal(t, time.Monday, want.Weekday())
		}
		assert.Equal(t, want, civil.DateOf(local), d.String())
	}
}

func TestSubmissionDeadline_CustomHourAndOffset(t *testing.T) {
	calc := NewCalculator(time.UTC,
		WithDeadlineHour(12),
		WithOffsetFunc(func(time.Time, *time.Location) int { return 5 }),
	)
	assert.Equal(t, "2026-01-27T07:00:00Z", calc.SubmissionDeadline(day("2026-01-26")).Format(time.RFC3339))
	assert.Equal(t, 12, calc.DeadlineHour())
}

func TestSubmissionDeadline_WeekendInputIsComputable(t *testing.T) {
	calc := NewCalculator(time.UTC)
	assert.Equal(t, "2026-02-01T10:00:00Z", calc.SubmissionDeadline(day("2026-01-31")).Format(time.RFC3339))
}

func TestIsOverdue_Boundary(t *testing.T) {
	calc := NewCalculator(time.UTC)
	monday := day("2026-01-26")

	assert.False(t, calc.IsOverdue(monday, instant(t, "2026-01-27T09:59:59Z")))
	assert.True(t, calc.IsOverdue(monday, instant(t, "2026-01-27T10:00:00Z")))
	assert.True(t, calc.IsOverdue(monday, instant(t, "2026-02-27T10:00:00Z")))
}

func TestIsOverdue_Sofia(t *testing.T) {
	calc := NewCalculator(sofia(t))
	monday := day("2026-01-26")

	assert.False(t, calc.IsOverdue(monday, instant(t, "2026-01-27T07:59:59Z")))
	assert.True(t, calc.IsOverdue(monday, instant(t, "2026-01-27T09:00:00Z")))
}

func TestIsOverdue_WeekendAndFuture(t *testing.T) {
	calc := NewCalculator(time.UTC)
	later := instant(t, "2026-03-01T12:00:00Z")

	assert.False(t, calc.IsOverdue(day("2026-01-31"), later))
	assert.False(t, calc.IsOverdue(day("2026-02-01"), later))
	assert.False(t, calc.IsOverdue(day("2026-01-29"), instant(t, "2026-01-28T23:59:59Z")))
	// сегодняшний день еще не просрочен
	assert.False(t, calc.IsOverdue(day("2026-01-28"), instant(t, "2026-01-28T23:59:59Z")))
}

func TestIsOverdue_Holiday(t *testing.T) {
	holidays := NewDateSet(day("2026-03-03"))
	calc := NewCalculator(time.UTC, WithHolidays(holidays.Has))
	now := instant(t, "2026-03-10T12:00:00Z")

	assert.False(t, calc.IsOverdue(day("2026-03-03"), now))
	assert.True(t, calc.IsOverdue(day("2026-03-04"), now))
}

func TestDeadlineDay(t *testing.T) {
	assert.Equal(t, day("2026-01-27"), DeadlineDay(day("2026-01-26")))
	assert.Equal(t, day("2026-02-02"), DeadlineDay(day("2026-01-30")))
}

func TestZoneOffset(t *testing.T) {
	loc := sofia(t)
	assert.Equal(t, 2, ZoneOffset(day("2026-01-15").In(loc, 12, 0), loc))
	assert.Equal(t, 3, ZoneOffset(day("2026-07-15").In(loc, 12, 0), loc))
	assert.Equal(t, 0, ZoneOffset(time.Now(), time.UTC))
}

func TestNewCalculator_NilLocation(t *testing.T) {
	calc := NewCalculator(nil)
	assert.Equal(t, time.UTC, calc.Location())
}
