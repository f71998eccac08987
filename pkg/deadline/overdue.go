package deadline

import (
	"time"

	"lexdesk/pkg/civil"
)

// Interval — одобренный период отсутствия, границы включительно.
type Interval struct {
	Start civil.Date `json:"start_date"`
	End   civil.Date `json:"end_date"`
}

// Contains проверяет Start <= d <= End.
func (i Interval) Contains(d civil.Date) bool {
	return d.Between(i.Start, i.End)
}

// OnLeave проверяет, попадает ли дата хотя бы в один период.
// Периоды могут быть не отсортированы и пересекаться.
func OnLeave(d civil.Date, intervals []Interval) bool {
	for _, i := range intervals {
		if i.Contains(d) {
			return true
		}
	}
	return false
}

// DateSet — множество дат.
type DateSet map[civil.Date]struct{}

// NewDateSet создает множество из дат.
func NewDateSet(dates ...civil.Date) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

func (s DateSet) Add(d civil.Date) {
	s[d] = struct{}{}
}

// Has работает и для nil множества.
func (s DateSet) Has(d civil.Date) bool {
	_, ok := s[d]
	return ok
}

// OverdueDates перечисляет несданные просроченные рабочие дни
// в окне [today-lookbackDays, today], старые первыми.
func (c *Calculator) OverdueDates(now time.Time, submitted DateSet, lookbackDays int, leave ...Interval) []civil.Date {
	if lookbackDays < 0 {
		lookbackDays = 0
	}
	today := c.Today(now)
	overdue := []civil.Date{}
	for d := today.AddDays(-lookbackDays); !d.After(today); d = d.AddDays(1) {
		if submitted.Has(d) {
			continue
		}
		if !c.IsWorkday(d) {
			continue
		}
		if OnLeave(d, leave) {
			continue
		}
		if c.IsOverdue(d, now) {
			overdue = append(overdue, d)
		}
	}
	return overdue
}

// Strings переводит даты в каноничные строки.
func Strings(dates []civil.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}
