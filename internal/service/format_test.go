package service

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexdesk/internal/models"
	"lexdesk/pkg/civil"
)

func TestFormatOverdue(t *testing.T) {
	assert.Equal(t, "✅ Просроченных дней нет", FormatOverdue(nil))

	text := FormatOverdue([]civil.Date{day("2026-01-26"), day("2026-01-27")})
	assert.Contains(t, text, "Не сдано дней: 2")
	assert.Contains(t, text, "• 26.01.2026 (Monday)")
}

func TestFormatLeave(t *testing.T) {
	p := &models.LeavePeriod{
		ID: 7, StartDate: day("2026-02-02"), EndDate: day("2026-02-06"),
		Type: models.LeaveTypeVacation, Status: models.LeaveStatusApproved,
	}
	assert.Equal(t, "#7 🏖 Отпуск: 02.02.2026 - 06.02.2026 (5 дн.) ✅ одобрено", FormatLeave(p))
}

func TestFormatDaySummary(t *testing.T) {
	summary := &DaySummary{
		Date:         day("2026-01-27"),
		TotalMinutes: 0,
		Workday:      true,
		Deadline:     time.Date(2026, 1, 28, 8, 0, 0, 0, time.UTC),
	}
	sofia, err := time.LoadLocation("Europe/Sofia")
	require.NoError(t, err)
	text := FormatDaySummary(summary, sofia)
	assert.Contains(t, text, "Записей нет")
	assert.Contains(t, text, "Сдать до 28.01.2026 10:00")
}

func TestFormatMonthlySummary(t *testing.T) {
	text := FormatMonthlySummary(&MonthlySummary{
		Year: 2026, Month: time.January, WorkingDays: 21,
		RequiredMinutes: 21 * 480, WorkedMinutes: 21*480 + 90, OvertimeMinutes: 90,
	})
	assert.Contains(t, text, "January 2026")
	assert.Contains(t, text, "Переработка: 1ч 30м")
	assert.NotContains(t, text, "Недобор")
}
