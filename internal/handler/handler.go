package handler

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"lexdesk/internal/logging"
	"lexdesk/internal/models"
	"lexdesk/internal/service"
	"lexdesk/pkg/civil"
	"lexdesk/pkg/telegram"
)

type Handler struct {
	bot        telegram.Requester
	users      *service.UserService
	clients    *service.ClientService
	timesheets *service.TimesheetService
	leave      *service.LeaveService
	overdue    *service.OverdueService
	now        func() time.Time
	logger     *logrus.Logger
}

func NewHandler(
	bot telegram.Requester,
	users *service.UserService,
	clients *service.ClientService,
	timesheets *service.TimesheetService,
	leave *service.LeaveService,
	overdue *service.OverdueService,
) *Handler {
	return &Handler{
		bot:        bot,
		users:      users,
		clients:    clients,
		timesheets: timesheets,
		leave:      leave,
		overdue:    overdue,
		now:        time.Now,
		logger:     logging.New(),
	}
}

// HandleUpdates обрабатывает обновления до закрытия канала или отмены контекста
func (h *Handler) HandleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.CallbackQuery != nil {
				h.handleCallbackQuery(update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			h.HandleMessage(update.Message)
		}
	}
}

func (h *Handler) HandleMessage(message *tgbotapi.Message) {
	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	h.logger.WithFields(logrus.Fields{
		"chat_id":  message.Chat.ID,
		"username": username,
	}).Debugf("Message: %s", message.Command())

	if message.IsCommand() {
		h.handleCommand(message)
		return
	}
	h.reply(message.Chat.ID, "🤖 Я понимаю только команды. Используйте /help для списка команд.")
}

func (h *Handler) today() civil.Date {
	return h.overdue.Calculator().Today(h.now())
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

// linkedUser возвращает пользователя чата или просит привязать учетную запись
func (h *Handler) linkedUser(chatID int64) *models.User {
	user, err := h.users.GetByChatID(chatID)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		h.replyError(chatID, err)
		return nil
	}
	if user == nil || !user.Active {
		h.reply(chatID, "🔗 Чат не привязан к учетной записи.\nИспользуйте /link email пароль")
		return nil
	}
	return user
}

func (h *Handler) adminUser(chatID int64) *models.User {
	user := h.linkedUser(chatID)
	if user == nil {
		return nil
	}
	if !user.IsAdmin() {
		h.reply(chatID, "❌ Доступ запрещен. Эта команда только для администраторов.")
		return nil
	}
	return user
}

// replyError сообщает пользователю ошибку сервиса
func (h *Handler) replyError(chatID int64, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		h.reply(chatID, "❌ Неверный email или пароль.")
	case errors.Is(err, service.ErrForbidden):
		h.reply(chatID, "❌ Недостаточно прав для этого действия.")
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConflict):
		h.reply(chatID, "❌ "+err.Error())
	default:
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Command failed")
		h.reply(chatID, "❌ Внутренняя ошибка, попробуйте позже.")
	}
}
