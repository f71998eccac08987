package handler

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lexdesk/internal/models"
	"lexdesk/internal/service"
)

const leaveUsage = `🏖️ Заявка на отсутствие

Формат команды:
/leave тип начало [конец] [причина]

Типы: vacation (отпуск), sick (больничный), dayoff (отгул)

Примеры:
/leave vacation 01.07.2026 14.07.2026 семейный отдых
/leave dayoff 15.08.2026
/leave sick today простуда

💡 Отпуск можно запросить только на будущие даты.
Заявка вступает в силу после одобрения администратором.`

func (h *Handler) requestLeave(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user := h.linkedUser(chatID)
	if user == nil {
		return
	}

	parts := splitArgs(args)
	if len(parts) < 2 {
		h.reply(chatID, leaveUsage)
		return
	}
	leaveType, ok := leaveTypeAliases[strings.ToLower(parts[0])]
	if !ok {
		h.reply(chatID, "❌ Неизвестный тип отсутствия. Используйте vacation, sick или dayoff.")
		return
	}

	today := h.today()
	start, err := parseDate(parts[1], today)
	if err != nil {
		h.reply(chatID, "❌ Ошибка даты начала: "+err.Error())
		return
	}
	end := start
	reason := parts[2:]
	if len(reason) > 0 {
		if d, err := parseDate(reason[0], today); err == nil {
			end = d
			reason = reason[1:]
		}
	}

	period, err := h.leave.RequestLeave(user.ID, leaveType, start, end, strings.Join(reason, " "))
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, "✅ Заявка отправлена на рассмотрение\n\n"+service.FormatLeave(period))
}

func (h *Handler) showMyLeave(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	user := h.linkedUser(chatID)
	if user == nil {
		return
	}

	periods, err := h.leave.ListForUser(user.ID)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, service.FormatLeaveList(periods, false))
}

func (h *Handler) cancelLeave(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user := h.linkedUser(chatID)
	if user == nil {
		return
	}

	id, err := parseID(args)
	if err != nil {
		h.reply(chatID, "❌ Укажите номер заявки: /cancelleave 12")
		return
	}
	period, err := h.leave.Cancel(user, id)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, "🚫 Заявка отменена\n\n"+service.FormatLeave(period))
}

// showPending показывает заявки с кнопками одобрения
func (h *Handler) showPending(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if h.adminUser(chatID) == nil {
		return
	}

	periods, err := h.leave.ListPending()
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if len(periods) == 0 {
		h.reply(chatID, "📭 Заявок на рассмотрении нет")
		return
	}

	for _, p := range periods {
		text := fmt.Sprintf("👤 %s\n%s", p.User.Name, service.FormatLeave(p))
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Одобрить", fmt.Sprintf("approve_leave_%d", p.ID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", fmt.Sprintf("reject_leave_%d", p.ID)),
			),
		)
		if _, err := h.bot.Send(msg); err != nil {
			h.logger.WithError(err).Error("Failed to send pending leave")
		}
	}
}

func (h *Handler) approveLeave(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	id, err := parseID(args)
	if err != nil {
		h.reply(chatID, "❌ Укажите номер заявки: /approve 12")
		return
	}
	h.reviewLeave(chatID, id, true, "")
}

func (h *Handler) rejectLeave(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	idRaw, reason, _ := strings.Cut(strings.TrimSpace(args), " ")
	id, err := parseID(idRaw)
	if err != nil {
		h.reply(chatID, "❌ Укажите номер заявки и причину: /reject 12 пересекается с процессом")
		return
	}
	h.reviewLeave(chatID, id, false, strings.TrimSpace(reason))
}

// reviewLeave одобряет или отклоняет заявку и уведомляет сотрудника
func (h *Handler) reviewLeave(chatID int64, id uint, approve bool, reason string) {
	admin := h.adminUser(chatID)
	if admin == nil {
		return
	}

	var (
		period *models.LeavePeriod
		err    error
	)
	if approve {
		period, err = h.leave.Approve(admin, id)
	} else {
		period, err = h.leave.Reject(admin, id, reason)
	}
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, "✅ Решение сохранено\n\n"+service.FormatLeave(period))

	owner, err := h.users.GetUser(period.UserID)
	if err != nil || owner == nil || !owner.HasChat() {
		return
	}
	verdict := "✅ Ваша заявка одобрена"
	if !approve {
		verdict = "❌ Ваша заявка отклонена"
	}
	h.reply(*owner.ChatID, verdict+"\n\n"+service.FormatLeave(period))
}

func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Убираем кнопки
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.WithError(err).Debug("Failed to remove inline keyboard")
	}

	var id uint
	switch {
	case parseCallback(data, "approve_leave_", &id):
		h.reviewLeave(chatID, id, true, "")
	case parseCallback(data, "reject_leave_", &id):
		h.reviewLeave(chatID, id, false, "")
	default:
		h.logger.WithField("data", data).Warn("Unknown callback")
	}

	if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		h.logger.WithError(err).Debug("Failed to answer callback")
	}
}

func parseCallback(data, prefix string, id *uint) bool {
	if !strings.HasPrefix(data, prefix) {
		return false
	}
	parsed, err := parseID(strings.TrimPrefix(data, prefix))
	if err != nil {
		return false
	}
	*id = parsed
	return true
}
