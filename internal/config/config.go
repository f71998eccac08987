package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"lexdesk/pkg/deadline"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	LogLevel    string

	TelegramToken    string
	TelegramDebug    bool
	ReminderInterval time.Duration

	Timezone           string
	Location           *time.Location
	DeadlineHour       int
	LookbackDays       int
	MinSubmissionHours int

	SessionTTL      time.Duration
	AdminEmail      string
	AdminPassword   string
	HolidayPath     string
	DefaultCurrency string
}

var instance *Config
var once sync.Once

// GetConfig загружает конфиг один раз; ошибка конфигурации фатальна.
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Warnf("no .env file loaded: %s", err.Error())
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("invalid configuration: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load читает конфиг из окружения.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", "lexdesk.db"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TelegramToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramDebug:      getEnvAsBool("TELEGRAM_DEBUG", false),
		ReminderInterval:   getEnvAsDuration("REMINDER_INTERVAL", 15*time.Minute),
		Timezone:           getEnv("FIRM_TIMEZONE", "Europe/Sofia"),
		DeadlineHour:       getEnvAsInt("DEADLINE_HOUR", deadline.DefaultDeadlineHour),
		LookbackDays:       getEnvAsInt("LOOKBACK_DAYS", deadline.DefaultLookbackDays),
		MinSubmissionHours: getEnvAsInt("MIN_SUBMISSION_HOURS", deadline.MinSubmissionHours),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		AdminEmail:         strings.TrimSpace(getEnv("ADMIN_EMAIL", "")),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		HolidayPath:        getEnv("HOLIDAY_PATH", ""),
		DefaultCurrency:    strings.ToUpper(getEnv("DEFAULT_CURRENCY", "EUR")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid FIRM_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.DeadlineHour < 0 || cfg.DeadlineHour > 23 {
		return nil, fmt.Errorf("DEADLINE_HOUR must be 0..23, got %d", cfg.DeadlineHour)
	}
	if cfg.LookbackDays < 0 {
		return nil, fmt.Errorf("LOOKBACK_DAYS must not be negative")
	}
	if cfg.MinSubmissionHours <= 0 || cfg.MinSubmissionHours > 24 {
		return nil, fmt.Errorf("MIN_SUBMISSION_HOURS must be 1..24, got %d", cfg.MinSubmissionHours)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.ReminderInterval <= 0 {
		cfg.ReminderInterval = 15 * time.Minute
	}

	return cfg, nil
}

// Calculator собирает калькулятор дедлайнов из конфига.
func (c *Config) Calculator(opts ...deadline.Option) *deadline.Calculator {
	opts = append([]deadline.Option{deadline.WithDeadlineHour(c.DeadlineHour)}, opts...)
	return deadline.NewCalculator(c.Location, opts...)
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(name, "")
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}

	return defaultVal
}
