package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexdesk/pkg/civil"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "lexdesk.db", cfg.DatabaseURL)
	assert.Equal(t, "Europe/Sofia", cfg.Location.String())
	assert.Equal(t, 10, cfg.DeadlineHour)
	assert.Equal(t, 30, cfg.LookbackDays)
	assert.Equal(t, 8, cfg.MinSubmissionHours)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.False(t, cfg.TelegramDebug)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("FIRM_TIMEZONE", "UTC")
	t.Setenv("DEADLINE_HOUR", "9")
	t.Setenv("LOOKBACK_DAYS", "14")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("TELEGRAM_DEBUG", "true")
	t.Setenv("DEFAULT_CURRENCY", "bgn")
	t.Setenv("REMINDER_INTERVAL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 9, cfg.DeadlineHour)
	assert.Equal(t, 14, cfg.LookbackDays)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 15*time.Minute, cfg.ReminderInterval)
	assert.True(t, cfg.TelegramDebug)
	assert.Equal(t, "BGN", cfg.DefaultCurrency)

	deadline := cfg.Calculator().SubmissionDeadline(civil.MustParseDate("2026-01-26"))
	assert.Equal(t, "2026-01-27T09:00:00Z", deadline.Format(time.RFC3339))
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("FIRM_TIMEZONE", "Not/A/Zone")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDeadlineHour(t *testing.T) {
	t.Setenv("DEADLINE_HOUR", "25")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidMinSubmissionHours(t *testing.T) {
	t.Setenv("MIN_SUBMISSION_HOURS", "0")
	_, err := Load()
	assert.Error(t, err)
}
