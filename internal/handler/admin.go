package handler

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lexdesk/internal/service"
)

// showAllUsers показывает всех пользователей
func (h *Handler) showAllUsers(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if h.adminUser(chatID) == nil {
		return
	}

	users, err := h.users.ListUsers()
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, service.FormatAllUsers(users))
}
