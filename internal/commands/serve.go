package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lexdesk/internal/api"
	"lexdesk/internal/handler"
	"lexdesk/internal/logging"
	"lexdesk/internal/reminder"
	"lexdesk/pkg/telegram"
)

const (
	shutdownTimeout = 10 * time.Second
	sessionPurge    = time.Hour
)

// NewServeCmd создает команду serve.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, Telegram bot and overdue reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	log := logging.New()
	cfg := loadConfig()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.users.InitializeAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("initializing admin: %w", err)
	}
	if cfg.HolidayPath != "" {
		n, err := a.holidays.LoadCalendars(cfg.HolidayPath)
		if err != nil {
			return fmt.Errorf("loading holiday calendars: %w", err)
		}
		log.WithField("count", n).Info("Holiday calendars loaded")
	}

	var client *telegram.Client
	if cfg.TelegramToken != "" {
		client, err = telegram.NewClient(cfg.TelegramToken, cfg.TelegramDebug)
		if err != nil {
			return fmt.Errorf("creating Telegram client: %w", err)
		}
		log.Infof("Authorized on account %s", client.Username())
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	srv := api.New(cfg.HTTPAddr, a.services())
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(sessionPurge)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if _, err := a.auth.PurgeExpired(); err != nil {
					log.WithError(err).Warn("Failed to purge expired sessions")
				}
			}
		}
	})

	if client != nil {
		bot := handler.NewHandler(client, a.users, a.clients, a.timesheets, a.leave, a.overdue)
		updates := client.Updates()
		g.Go(func() error {
			bot.HandleUpdates(gctx, updates)
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			client.Stop()
			return nil
		})

		notifier := reminder.New(a.users, a.overdue, client, cfg.ReminderInterval, a.metrics)
		g.Go(func() error { return notifier.Run(gctx) })
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN is not set, bot and reminders are disabled")
	}

	log.Info("lexdesk started. Press Ctrl+C to stop.")
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("lexdesk stopped gracefully")
	return nil
}
