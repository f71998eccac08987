// Package reminder рассылает напоминания о несданных таймшитах в Telegram.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"lexdesk/internal/logging"
	"lexdesk/internal/metrics"
	"lexdesk/internal/models"
	"lexdesk/internal/service"
	"lexdesk/pkg/civil"
	"lexdesk/pkg/deadline"
	"lexdesk/pkg/telegram"
)

// Recipients — пользователи с привязанным чатом
type Recipients interface {
	ListWithChat() ([]*models.User, error)
}

// OverdueSource — расчет просрочек
type OverdueSource interface {
	Calculator() *deadline.Calculator
	ForUser(user *models.User, now time.Time) ([]civil.Date, error)
}

type Reminder struct {
	users    Recipients
	overdue  OverdueSource
	sender   telegram.Sender
	breaker  *gobreaker.CircuitBreaker
	interval time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
	logger   *logrus.Logger

	mu       sync.Mutex
	lastSent map[uint]civil.Date
}

func New(users Recipients, overdue OverdueSource, sender telegram.Sender, interval time.Duration, m *metrics.Metrics) *Reminder {
	r := &Reminder{
		users:    users,
		overdue:  overdue,
		sender:   sender,
		interval: interval,
		metrics:  m,
		now:      time.Now,
		logger:   logging.New(),
		lastSent: map[uint]civil.Date{},
	}
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "telegram-reminders",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
	return r
}

// Run проверяет просрочки каждые interval до отмены контекста
func (r *Reminder) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.WithField("interval", r.interval.String()).Info("Reminder loop started")
	for {
		if _, err := r.Tick(); err != nil {
			r.logger.WithError(err).Error("Reminder tick failed")
		}
		select {
		case <-ctx.Done():
			r.logger.Info("Reminder loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Tick рассылает напоминания один раз и возвращает число отправленных.
// До часа дедлайна ничего не отправляется; каждому не чаще раза в сутки.
// Сбой расчета по одному пользователю не мешает остальным.
func (r *Reminder) Tick() (int, error) {
	now := r.now()
	calc := r.overdue.Calculator()
	if now.In(calc.Location()).Hour() < calc.DeadlineHour() {
		return 0, nil
	}
	today := calc.Today(now)

	users, err := r.users.ListWithChat()
	if err != nil {
		return 0, fmt.Errorf("listing recipients: %w", err)
	}

	sent := 0
	for _, user := range users {
		if !user.HasChat() || r.alreadySent(user.ID, today) {
			continue
		}
		dates, err := r.overdue.ForUser(user, now)
		if err != nil {
			r.logger.WithError(err).WithField("user_id", user.ID).Warn("Overdue scan failed, skipping user")
			continue
		}
		if len(dates) == 0 {
			continue
		}

		if err := r.send(*user.ChatID, reminderText(dates)); err != nil {
			result := "failed"
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				result = "skipped"
			}
			r.count(result)
			r.logger.WithError(err).WithField("user_id", user.ID).Warn("Reminder not delivered")
			continue
		}
		r.markSent(user.ID, today)
		r.count("sent")
		sent++
	}
	return sent, nil
}

func (r *Reminder) send(chatID int64, text string) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return r.sender.Send(tgbotapi.NewMessage(chatID, text))
	})
	return err
}

func (r *Reminder) alreadySent(userID uint, today civil.Date) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSent[userID] == today
}

func (r *Reminder) markSent(userID uint, today civil.Date) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSent[userID] = today
}

func (r *Reminder) count(result string) {
	if r.metrics != nil {
		r.metrics.RemindersSent.WithLabelValues(result).Inc()
	}
}

func reminderText(dates []civil.Date) string {
	return "⏰ Напоминание о таймшите\n\n" + service.FormatOverdue(dates)
}
