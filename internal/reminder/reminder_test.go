package reminder

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"lexdesk/internal/logging"
	"lexdesk/internal/metrics"
	"lexdesk/internal/models"
	"lexdesk/pkg/civil"
	"lexdesk/pkg/deadline"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
	hits int
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits++
	if s.err != nil {
		return tgbotapi.Message{}, s.err
	}
	s.sent = append(s.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (s *fakeSender) messages() []tgbotapi.MessageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), s.sent...)
}

type fakeUsers []*models.User

func (u fakeUsers) ListWithChat() ([]*models.User, error) { return u, nil }

type fakeOverdue struct {
	calc    *deadline.Calculator
	dates   map[uint][]civil.Date
	failing map[uint]bool
}

func (f *fakeOverdue) Calculator() *deadline.Calculator { return f.calc }

func (f *fakeOverdue) ForUser(user *models.User, now time.Time) ([]civil.Date, error) {
	if f.failing[user.ID] {
		return nil, errors.New("database is locked")
	}
	return f.dates[user.ID], nil
}

func chatUser(id uint) *models.User {
	chat := int64(1000 + id)
	return &models.User{ID: id, Name: "user", Email: "u@firm.bg", Role: models.RoleLawyer, ChatID: &chat, Active: true}
}

func newReminder(t *testing.T, users fakeUsers, dates map[uint][]civil.Date, sender *fakeSender) (*Reminder, *metrics.Metrics) {
	t.Helper()
	logging.SetOutput(io.Discard)
	m := metrics.New()
	overdue := &fakeOverdue{calc: deadline.NewCalculator(time.UTC), dates: dates}
	return New(users, overdue, sender, 10*time.Millisecond, m), m
}

func at(s string) func() time.Time {
	ts, _ := time.Parse(time.RFC3339, s)
	return func() time.Time { return ts }
}

var overdueDates = []civil.Date{civil.MustParseDate("2026-01-27")}

func TestTick_BeforeDeadlineHour(t *testing.T) {
	sender := &fakeSender{}
	r, _ := newReminder(t, fakeUsers{chatUser(1)}, map[uint][]civil.Date{1: overdueDates}, sender)
	r.now = at("2026-01-28T09:59:00Z")

	sent, err := r.Tick()
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, sender.messages())
}

func TestTick_OncePerDay(t *testing.T) {
	sender := &fakeSender{}
	users := fakeUsers{chatUser(1), chatUser(2)}
	r, m := newReminder(t, users, map[uint][]civil.Date{1: overdueDates}, sender)
	r.now = at("2026-01-28T11:00:00Z")

	sent, err := r.Tick()
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(1001), msgs[0].ChatID)
	assert.Contains(t, msgs[0].Text, "27.01.2026")

	sent, err = r.Tick()
	require.NoError(t, err)
	assert.Zero(t, sent)

	r.now = at("2026-01-29T10:30:00Z")
	sent, err = r.Tick()
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.RemindersSent.WithLabelValues("sent")))
}

func TestTick_ScanFailureSkipsOnlyThatUser(t *testing.T) {
	sender := &fakeSender{}
	users := fakeUsers{chatUser(1), chatUser(2), chatUser(3)}
	dates := map[uint][]civil.Date{1: overdueDates, 2: overdueDates, 3: overdueDates}
	r, _ := newReminder(t, users, dates, sender)
	r.overdue.(*fakeOverdue).failing = map[uint]bool{1: true}
	r.now = at("2026-01-28T11:00:00Z")

	sent, err := r.Tick()
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(1002), msgs[0].ChatID)
	assert.Equal(t, int64(1003), msgs[1].ChatID)

	// неудачный пользователь повторяется на следующем тике
	r.overdue.(*fakeOverdue).failing = nil
	sent, err = r.Tick()
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestTick_BreakerStopsHammering(t *testing.T) {
	sender := &fakeSender{err: errors.New("telegram is down")}
	users := fakeUsers{}
	dates := map[uint][]civil.Date{}
	for id := uint(1); id <= 5; id++ {
		users = append(users, chatUser(id))
		dates[id] = overdueDates
	}
	r, m := newReminder(t, users, dates, sender)
	r.now = at("2026-01-28T11:00:00Z")

	sent, err := r.Tick()
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Equal(t, 3, sender.hits)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.RemindersSent.WithLabelValues("failed")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.RemindersSent.WithLabelValues("skipped")))
}

func TestRun_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	sender := &fakeSender{}
	r, _ := newReminder(t, fakeUsers{chatUser(1)}, map[uint][]civil.Date{1: overdueDates}, sender)
	r.now = at("2026-01-28T11:00:00Z")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reminder loop did not stop")
	}
	assert.Len(t, sender.messages(), 1)
}
