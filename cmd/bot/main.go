// Package main contains the entrypoint for the Telegram bot application.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/empathybot/internal/ai"
	"github.com/edgard/empathybot/internal/bot"
	"github.com/edgard/empathybot/internal/bot/handlers"
	"github.com/edgard/empathybot/internal/bot/tasks"
	"github.com/edgard/empathybot/internal/config"
	"github.com/edgard/empathybot/internal/database"
	"github.com/edgard/empathybot/internal/logger"
	"github.com/edgard/empathybot/internal/metrics"
	"github.com/edgard/empathybot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components, handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
// Nothing touches the network before the configuration is valid.
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON, "mode", cfg.Mode)

	metrics.MustRegister()

	aiClient, err := ai.New(ctx, cfg.AI, log)
	if err != nil {
		log.Error("Failed to initialize AI client", "provider", cfg.AI.Provider, "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger:          log,
		AI:              aiClient,
		TypingIndicator: cfg.Telegram.TypingIndicator,
	}

	var sched *bot.Scheduler
	if cfg.Database.Enabled() {
		db, err := database.NewDB(cfg.Database.Path)
		if err != nil {
			log.Error("Failed to open exchange journal", "path", cfg.Database.Path, "error", err)
			return 1
		}
		defer database.CloseDB(db)
		store := database.NewStore(db, log)
		hDeps.Store = store

		tDeps := tasks.TaskDeps{
			Logger:        log,
			Store:         store,
			RetentionDays: cfg.Database.RetentionDays,
		}
		sched, err = bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
		if err != nil {
			log.Error("Failed to create scheduler", "error", err)
			return 1
		}
	} else {
		log.Info("Exchange journal disabled")
	}

	botOpts := []tgbot.Option{
		tgbot.WithSkipGetMe(),
		tgbot.WithMiddlewares(logger.Middleware(log), handlers.Recoverer(hDeps)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
		tgbot.WithWorkers(cfg.Telegram.Workers),
		tgbot.WithErrorsHandler(func(err error) {
			log.Error("Telegram client error", "error", err)
		}),
	}
	if cfg.Webhook.SecretToken != "" {
		botOpts = append(botOpts, tgbot.WithWebhookSecretToken(cfg.Webhook.SecretToken))
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if me, err := tg.GetMe(ctx); err != nil {
		log.Warn("Failed to get bot info", "error", err)
	} else {
		log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)
	}

	app := bot.NewBot(log, cfg, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
