package handler

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lexdesk/internal/models"
	"lexdesk/internal/service"
)

const logUsage = `❌ Неверный формат. Используйте:
/log дата часы клиент[/тема] описание

Примеры:
/log today 1.5 Acme/Litigation подготовка иска
/log 26.01.2026 2:30 "Acme Ltd" переговоры`

// logTime записывает время за день
func (h *Handler) logTime(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user := h.linkedUser(chatID)
	if user == nil {
		return
	}

	parts := splitArgs(args)
	if len(parts) < 4 {
		h.reply(chatID, logUsage)
		return
	}
	date, err := parseDate(parts[0], h.today())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}
	minutes, err := parseHours(parts[1])
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}
	clientName, topicName := parseMatter(parts[2])
	client, topic, err := h.clients.Resolve(clientName, topicName)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	in := service.EntryInput{
		Date:        date,
		Minutes:     minutes,
		ClientID:    client.ID,
		Description: strings.Join(parts[3:], " "),
	}
	matter := client.Name
	if topic != nil {
		in.TopicID = &topic.ID
		matter += " / " + topic.Name
	}

	entry, err := h.timesheets.LogEntry(user, in)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	response := fmt.Sprintf("✅ Записано: %s\n📅 %s\n💼 %s\n📝 %s",
		models.FormatMinutes(entry.Minutes), service.DisplayDate(entry.Date), matter, entry.Description)
	if day, err := h.timesheets.DaySummary(user.ID, date); err == nil {
		response += fmt.Sprintf("\n\n⏰ Всего за день: %s", models.FormatMinutes(day.TotalMinutes))
		if day.Submitted {
			response += " ✅"
		} else {
			response += fmt.Sprintf(" (норма %s)", models.FormatMinutes(h.timesheets.MinMinutes()))
		}
	}
	h.reply(chatID, response)
}

func (h *Handler) showDay(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user := h.linkedUser(chatID)
	if user == nil {
		return
	}

	date := h.today()
	if strings.TrimSpace(args) != "" {
		var err error
		if date, err = parseDate(args, date); err != nil {
			h.reply(chatID, "❌ "+err.Error())
			return
		}
	}
	day, err := h.timesheets.DaySummary(user.ID, date)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, service.FormatDaySummary(day, h.overdue.Calculator().Location()))
}

func (h *Handler) showMonth(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user := h.linkedUser(chatID)
	if user == nil {
		return
	}

	year, month, err := parseMonth(args, h.today())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}
	summary, err := h.timesheets.MonthlySummary(user.ID, year, month)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, service.FormatMonthlySummary(summary))
}

func (h *Handler) showOverdue(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	user := h.linkedUser(chatID)
	if user == nil {
		return
	}

	dates, err := h.overdue.ForUser(user, h.now())
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, service.FormatOverdue(dates))
}
