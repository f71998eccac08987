// Package deadline вычисляет сроки сдачи таймшитов и просроченные дни.
//
// Все функции чистые: текущее время всегда передается параметром now,
// состояние между вызовами не хранится.
package deadline

import (
	"time"

	"lexdesk/pkg/civil"
)

const (
	// DefaultDeadlineHour — час местного времени, до которого сдается таймшит за прошлый рабочий день.
	DefaultDeadlineHour = 10
	// DefaultLookbackDays — сколько дней назад проверять просрочки.
	DefaultLookbackDays = 30
	// MinSubmissionHours — минимум часов за день, чтобы день считался сданным.
	MinSubmissionHours = 8
)

// OffsetFunc возвращает смещение зоны loc от UTC в целых часах в момент at.
type OffsetFunc func(at time.Time, loc *time.Location) int

// ZoneOffset — OffsetFunc по базе часовых поясов (учитывает летнее время).
func ZoneOffset(at time.Time, loc *time.Location) int {
	_, offset := at.In(loc).Zone()
	return offset / 3600
}

// Calculator считает сроки в заданной зоне.
type Calculator struct {
	loc     *time.Location
	hour    int
	offset  OffsetFunc
	holiday func(civil.Date) bool
}

// Option настраивает Calculator.
type Option func(*Calculator)

// WithDeadlineHour меняет час дедлайна.
func WithDeadlineHour(hour int) Option {
	return func(c *Calculator) {
		c.hour = hour
	}
}

// WithOffsetFunc подменяет источник смещения зоны.
func WithOffsetFunc(f OffsetFunc) Option {
	return func(c *Calculator) {
		if f != nil {
			c.offset = f
		}
	}
}

// WithHolidays исключает праздники из проверки просрочек, как отпуск.
func WithHolidays(isHoliday func(civil.Date) bool) Option {
	return func(c *Calculator) {
		c.holiday = isHoliday
	}
}

// NewCalculator создает калькулятор для зоны loc (nil означает UTC).
func NewCalculator(loc *time.Location, opts ...Option) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	c := &Calculator{
		loc:    loc,
		hour:   DefaultDeadlineHour,
		offset: ZoneOffset,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location возвращает зону калькулятора.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// DeadlineHour возвращает час дедлайна.
func (c *Calculator) DeadlineHour() int {
	return c.hour
}

// Today возвращает календарную дату now в зоне калькулятора.
func (c *Calculator) Today(now time.Time) civil.Date {
	return civil.DateIn(now, c.loc)
}

// IsWeekday — понедельник..пятница.
func IsWeekday(d civil.Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// DeadlineDay возвращает день, в который истекает срок сдачи за workday:
// следующий день, а для пятницы — понедельник.
func DeadlineDay(workday civil.Date) civil.Date {
	if workday.Weekday() == time.Friday {
		return workday.AddDays(3)
	}
	return workday.AddDays(1)
}

// SubmissionDeadline возвращает момент (UTC), после которого сдача за workday просрочена.
// Смещение берется на местный полдень дня дедлайна, а не рабочего дня.
func (c *Calculator) SubmissionDeadline(workday civil.Date) time.Time {
	day := DeadlineDay(workday)
	offset := c.offset(day.In(c.loc, 12, 0), c.loc)
	return time.Date(day.Year, day.Month, day.Day, c.hour-offset, 0, 0, 0, time.UTC)
}

// IsWorkday — будний день, не отмеченный как праздник.
func (c *Calculator) IsWorkday(d civil.Date) bool {
	if !IsWeekday(d) {
		return false
	}
	return c.holiday == nil || !c.holiday(d)
}

// IsOverdue сообщает, просрочена ли сдача за workday в момент now.
// Дедлайн включительный: ровно в момент дедлайна день уже просрочен.
func (c *Calculator) IsOverdue(workday civil.Date, now time.Time) bool {
	if !c.IsWorkday(workday) {
		return false
	}
	if workday.After(c.Today(now)) {
		return false
	}
	return !now.Before(c.SubmissionDeadline(workday))
}
