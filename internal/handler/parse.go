package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"lexdesk/internal/models"
	"lexdesk/pkg/civil"
)

var leaveTypeAliases = map[string]string{
	"vacation":   models.LeaveTypeVacation,
	"отпуск":     models.LeaveTypeVacation,
	"sick":       models.LeaveTypeSickLeave,
	"sick_leave": models.LeaveTypeSickLeave,
	"больничный": models.LeaveTypeSickLeave,
	"dayoff":     models.LeaveTypeDayOff,
	"day_off":    models.LeaveTypeDayOff,
	"отгул":      models.LeaveTypeDayOff,
}

var sixty = decimal.NewFromInt(60)

// splitArgs делит аргументы по пробелам; текст в кавычках остается одним аргументом
func splitArgs(s string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case (r == ' ' || r == '\t' || r == '\n') && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}

// parseDate понимает ГГГГ-ММ-ДД, ДД.ММ.ГГГГ, ДД.ММ (текущий год) и today/yesterday
func parseDate(raw string, today civil.Date) (civil.Date, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "today", "сегодня":
		return today, nil
	case "yesterday", "вчера":
		return today.AddDays(-1), nil
	}

	if d, err := civil.ParseDate(raw); err == nil {
		return d, nil
	}
	if t, err := time.Parse("02.01.2006", raw); err == nil {
		return civil.DateOf(t), nil
	}
	if t, err := time.Parse("02.01", raw); err == nil {
		return civil.NewDate(today.Year, t.Month(), t.Day()), nil
	}
	return civil.Date{}, fmt.Errorf("неверный формат даты %q. Используйте ГГГГ-ММ-ДД или ДД.ММ.ГГГГ", raw)
}

// parseHours переводит "1.5", "1,5" или "1:30" в минуты
func parseHours(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if h, m, ok := strings.Cut(raw, ":"); ok {
		hours, err1 := strconv.Atoi(h)
		minutes, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil || hours < 0 || minutes < 0 || minutes > 59 {
			return 0, fmt.Errorf("неверное время %q, ожидается Ч:ММ", raw)
		}
		total := hours*60 + minutes
		if total == 0 {
			return 0, fmt.Errorf("время должно быть больше нуля")
		}
		return total, nil
	}

	hours, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return 0, fmt.Errorf("неверное количество часов %q", raw)
	}
	minutes := hours.Mul(sixty).Round(0).IntPart()
	if minutes <= 0 {
		return 0, fmt.Errorf("время должно быть больше нуля")
	}
	return int(minutes), nil
}

// parseMonth понимает ММ.ГГГГ, ГГГГ-ММ и номер месяца текущего года
func parseMonth(raw string, today civil.Date) (int, time.Month, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return today.Year, today.Month, nil
	}
	if t, err := time.Parse("01.2006", raw); err == nil {
		return t.Year(), t.Month(), nil
	}
	if t, err := time.Parse("2006-01", raw); err == nil {
		return t.Year(), t.Month(), nil
	}
	if m, err := strconv.Atoi(raw); err == nil && m >= 1 && m <= 12 {
		return today.Year, time.Month(m), nil
	}
	return 0, 0, fmt.Errorf("неверный месяц %q. Используйте ММ.ГГГГ", raw)
}

// parseMatter делит "клиент/тема"
func parseMatter(raw string) (string, string) {
	client, topic, _ := strings.Cut(raw, "/")
	return strings.TrimSpace(client), strings.TrimSpace(topic)
}

func parseID(raw string) (uint, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("неверный номер %q", raw)
	}
	return uint(id), nil
}
