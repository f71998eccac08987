package service

import (
	"fmt"
	"strings"
	"time"

	"lexdesk/internal/models"
	"lexdesk/pkg/civil"
)

var leaveTypeNames = map[string]string{
	models.LeaveTypeVacation:  "🏖 Отпуск",
	models.LeaveTypeSickLeave: "🤒 Больничный",
	models.LeaveTypeDayOff:    "🏠 Отгул",
}

var leaveStatusNames = map[string]string{
	models.LeaveStatusPending:   "⏳ ожидает",
	models.LeaveStatusApproved:  "✅ одобрено",
	models.LeaveStatusRejected:  "❌ отклонено",
	models.LeaveStatusCancelled: "🚫 отменено",
}

// DisplayDate печатает дату как 02.01.2006
func DisplayDate(d civil.Date) string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, int(d.Month), d.Year)
}

// FormatDaySummary форматирует день для бота
func FormatDaySummary(day *DaySummary, loc *time.Location) string {
	var result strings.Builder
	fmt.Fprintf(&result, "📅 %s\n\n", DisplayDate(day.Date))

	if len(day.Entries) == 0 {
		result.WriteString("📭 Записей нет\n")
	}
	for i, e := range day.Entries {
		matter := e.Client.Name
		if e.Topic != nil {
			matter += " / " + e.Topic.Name
		}
		billed := ""
		if e.IsBilled() {
			billed = " 🧾"
		}
		fmt.Fprintf(&result, "%d. #%d %s — %s%s\n   %s\n", i+1, e.ID, e.Duration(), matter, billed, e.Description)
	}

	fmt.Fprintf(&result, "\n⏰ Итого: %s", models.FormatMinutes(day.TotalMinutes))

	switch {
	case day.OnLeave:
		result.WriteString("\n🏖 День отсутствия")
	case !day.Workday:
		result.WriteString("\n🎉 Нерабочий день")
	case day.Submitted:
		result.WriteString("\n✅ День сдан")
	case day.Overdue:
		fmt.Fprintf(&result, "\n🔴 Просрочено (срок был %s)", day.Deadline.In(loc).Format("02.01.2006 15:04"))
	default:
		fmt.Fprintf(&result, "\n⚠️ Сдать до %s", day.Deadline.In(loc).Format("02.01.2006 15:04"))
	}
	return result.String()
}

// FormatMonthlySummary форматирует месячную статистику
func FormatMonthlySummary(m *MonthlySummary) string {
	result := fmt.Sprintf(
		`📊 Статистика за %s %d

📅 Плановые показатели:
   📋 Рабочих дней: %d
   ⏰ Плановое время: %s

✅ Фактические показатели:
   ⏰ Записано времени: %s
   💼 Из них оплачиваемых: %s`,
		m.Month.String(), m.Year,
		m.WorkingDays, models.FormatMinutes(m.RequiredMinutes),
		models.FormatMinutes(m.WorkedMinutes),
		models.FormatMinutes(m.BillableMinutes),
	)

	if m.LeaveDays > 0 {
		result += fmt.Sprintf("\n\n🏖 Дней отсутствия: %d", m.LeaveDays)
	}
	if m.OvertimeMinutes > 0 {
		result += fmt.Sprintf("\n\n➕ Переработка: %s", models.FormatMinutes(m.OvertimeMinutes))
	}
	if m.DeficitMinutes > 0 {
		result += fmt.Sprintf("\n\n➖ Недобор: %s", models.FormatMinutes(m.DeficitMinutes))
	}
	return result
}

// FormatOverdue форматирует список просроченных дней
func FormatOverdue(dates []civil.Date) string {
	if len(dates) == 0 {
		return "✅ Просроченных дней нет"
	}
	var result strings.Builder
	fmt.Fprintf(&result, "🔴 Не сдано дней: %d\n\n", len(dates))
	for _, d := range dates {
		fmt.Fprintf(&result, "• %s (%s)\n", DisplayDate(d), d.Weekday())
	}
	result.WriteString("\nЗапишите время командой /log")
	return result.String()
}

// FormatLeave форматирует одну заявку
func FormatLeave(p *models.LeavePeriod) string {
	period := DisplayDate(p.StartDate)
	if p.EndDate != p.StartDate {
		period += " - " + DisplayDate(p.EndDate)
	}
	line := fmt.Sprintf("#%d %s: %s (%d дн.) %s", p.ID, leaveTypeNames[p.Type], period, p.Days(), leaveStatusNames[p.Status])
	if p.Reason != "" {
		line += "\n   📝 " + p.Reason
	}
	if p.RejectReason != "" {
		line += "\n   ❌ " + p.RejectReason
	}
	return line
}

// FormatLeaveList форматирует список заявок; для админа показывает сотрудника
func FormatLeaveList(periods []*models.LeavePeriod, withUser bool) string {
	if len(periods) == 0 {
		return "📭 Заявок нет"
	}
	var result strings.Builder
	result.WriteString("📋 Заявки на отсутствие:\n\n")
	for _, p := range periods {
		if withUser && p.User.Name != "" {
			fmt.Fprintf(&result, "👤 %s\n", p.User.Name)
		}
		result.WriteString(FormatLeave(p))
		result.WriteString("\n\n")
	}
	return strings.TrimRight(result.String(), "\n")
}

// FormatUserInfo форматирует информацию о пользователе
func FormatUserInfo(user *models.User) string {
	var lines []string
	lines = append(lines, "👤 Профиль пользователя:")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("👨‍💼 Имя: %s", user.Name))
	lines = append(lines, fmt.Sprintf("📧 Email: %s", user.Email))

	roleEmoji := "👤"
	if user.IsAdmin() {
		roleEmoji = "👑"
	}
	lines = append(lines, fmt.Sprintf("%s Роль: %s", roleEmoji, string(user.Role)))
	return strings.Join(lines, "\n")
}

// FormatAllUsers форматирует список всех пользователей
func FormatAllUsers(users []*models.User) string {
	if len(users) == 0 {
		return "📭 Список пользователей пуст."
	}

	var lines []string
	lines = append(lines, "📋 Все пользователи:")
	lines = append(lines, "")

	admins := 0
	for i, user := range users {
		roleEmoji := "👤"
		if user.IsAdmin() {
			roleEmoji = "👑"
			admins++
		}
		info := fmt.Sprintf("%d. %s %s <%s> - ID: %d", i+1, roleEmoji, user.Name, user.Email, user.ID)
		if user.HasChat() {
			info += " 💬"
		}
		if !user.Active {
			info += " (неактивен)"
		}
		lines = append(lines, info)
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("📊 Всего пользователей: %d", len(users)))
	lines = append(lines, fmt.Sprintf("👑 Администраторов: %d", admins))
	return strings.Join(lines, "\n")
}
