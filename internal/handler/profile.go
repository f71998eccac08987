package handler

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lexdesk/internal/service"
)

// linkChat привязывает чат по email и паролю; сообщение с паролем удаляется
func (h *Handler) linkChat(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	defer h.deleteMessage(chatID, message.MessageID)

	email, password, ok := strings.Cut(strings.TrimSpace(args), " ")
	password = strings.TrimSpace(password)
	if !ok || email == "" || password == "" {
		h.reply(chatID, "❌ Неверный формат. Используйте: /link email пароль")
		return
	}

	user, err := h.users.LinkChat(email, password, chatID)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Чат привязан к учетной записи %s (%s)\n\nИспользуйте /help для списка команд.", user.Name, user.Email))
}

func (h *Handler) deleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		h.logger.WithError(err).Debug("Failed to delete message with credentials")
	}
}

func (h *Handler) unlinkChat(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	user := h.linkedUser(chatID)
	if user == nil {
		return
	}
	if err := h.users.UnlinkChat(user.ID); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, "✅ Чат отвязан. Напоминания больше не придут.")
}

func (h *Handler) showProfile(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	user := h.linkedUser(chatID)
	if user == nil {
		return
	}
	text := service.FormatUserInfo(user)
	current, err := h.leave.CurrentLeave(user.ID, h.today())
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load current leave")
	} else if current != nil {
		text += "\n\n🏖 Сейчас отсутствует:\n" + service.FormatLeave(current)
	}
	h.reply(chatID, text)
}
