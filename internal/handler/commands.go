package handler

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	args := message.CommandArguments()

	switch message.Command() {
	case "start", "help":
		h.sendHelpMessage(message)

	// Учетная запись
	case "link":
		h.linkChat(message, args)
	case "unlink":
		h.unlinkChat(message)
	case "me", "myprofile":
		h.showProfile(message)

	// Учет времени
	case "log":
		h.logTime(message, args)
	case "day", "today":
		h.showDay(message, args)
	case "month":
		h.showMonth(message, args)
	case "overdue":
		h.showOverdue(message)

	// Отсутствия
	case "leave":
		h.requestLeave(message, args)
	case "myleave":
		h.showMyLeave(message)
	case "cancelleave":
		h.cancelLeave(message, args)

	// Администраторы
	case "pending":
		h.showPending(message)
	case "approve":
		h.approveLeave(message, args)
	case "reject":
		h.rejectLeave(message, args)
	case "users", "allusers":
		h.showAllUsers(message)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.reply(message.Chat.ID, "❌ Неизвестная команда. Используйте /help для списка команд.")
}

const helpText = `📋 Доступные команды:

👤 Учетная запись:
/link email пароль - Привязать чат к учетной записи
/unlink - Отвязать чат
/me - Мой профиль

⏰ Таймшит:
/log дата часы клиент[/тема] описание - Записать время
    Пример: /log today 1.5 Acme/Litigation подготовка иска
    Пример: /log 26.01.2026 2:30 "Acme Ltd" переговоры
/day [дата] - Записи за день
/month [ММ.ГГГГ] - Итоги месяца
/overdue - Несданные дни

🏖️ Отпуска/Больничные/Отгулы:
/leave тип начало [конец] [причина] - Подать заявку
    Типы: vacation (отпуск), sick (больничный), dayoff (отгул)
    Пример: /leave vacation 01.07.2026 14.07.2026 семейный отдых
/myleave - Мои заявки
/cancelleave номер - Отменить заявку

📅 Даты: ГГГГ-ММ-ДД, ДД.ММ.ГГГГ, ДД.ММ, today, yesterday`

const adminHelpText = `

👑 Администраторам:
/pending - Заявки на рассмотрении
/approve номер - Одобрить заявку
/reject номер причина - Отклонить заявку
/users - Все пользователи`

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := helpText
	if user, err := h.users.GetByChatID(message.Chat.ID); err == nil && user != nil && user.IsAdmin() {
		text += adminHelpText
	}
	h.reply(message.Chat.ID, text)
}
