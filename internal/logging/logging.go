// Package logging настраивает logrus одинаково для всех компонентов.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	level  = logrus.InfoLevel
	output io.Writer = os.Stderr
	mu     sync.RWMutex
)

// SetLevel задает уровень для логгеров, созданных после вызова.
// Неизвестный уровень игнорируется.
func SetLevel(name string) {
	parsed, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Warnf("Unknown log level %q, keeping %s", name, level)
		return
	}
	mu.Lock()
	level = parsed
	mu.Unlock()
	logrus.SetLevel(parsed)
}

// SetOutput перенаправляет вывод новых логгеров (в тестах — io.Discard).
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
	logrus.SetOutput(w)
}

// New возвращает логгер с форматом времени как во всех сервисах.
func New() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(level)
	logger.SetOutput(output)
	return logger
}
