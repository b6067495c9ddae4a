package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"talentscout-bot/internal/console"
	"talentscout-bot/internal/server"
	"talentscout-bot/internal/telegram"
)

const cleanupInterval = time.Hour

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the intake conversation in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		c := console.New(a.workflow, a.dialog, os.Stdin, os.Stdout, a.cfg.Export.Dir)
		session, err := c.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("chat: %w", err)
		}
		zap.S().Named("main").Infow("chat ended", "session_id", session.ID, "state", session.State)
		return nil
	},
}

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the intake assistant as a Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.env.Telegram.Token == "" {
			return errors.New("TELEGRAM_BOT_TOKEN is not set")
		}

		a.sessions.StartCleanup(ctx, cleanupInterval)
		bot := telegram.New(a.env.Telegram.BaseURL, a.env.Telegram.Token)
		handler := telegram.NewHandler(bot, a.sessions, a.dialog, a.metrics, a.cfg.Sessions.RateLimit)

		zap.S().Named("main").Info("telegram bot started, waiting for messages")
		return bot.StartPolling(ctx, handler.HandleUpdate)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the intake workflow over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		a.sessions.StartCleanup(ctx, cleanupInterval)
		srv := server.New(a.env.Server, a.workflow, a.sessions, a.metrics, a.registry)
		return srv.Run(ctx)
	},
}
