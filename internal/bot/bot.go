// Package bot implements the bot lifecycle: it runs the Telegram transport in
// polling or webhook mode and the optional scheduler under one errgroup.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/empathybot/internal/config"
	"github.com/edgard/empathybot/internal/server"
	"github.com/edgard/empathybot/internal/telegram"
)

// Transport is the part of *bot.Bot from go-telegram/bot the orchestrator drives.
type Transport interface {
	telegram.WebhookManager
	// Start long-polls getUpdates until ctx is done.
	Start(ctx context.Context)
	// StartWebhook runs the update workers fed by WebhookHandler until ctx is done.
	StartWebhook(ctx context.Context)
	WebhookHandler() http.HandlerFunc
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	transport Transport
	scheduler *Scheduler
}

// NewBot creates the orchestrator. scheduler may be nil.
func NewBot(logger *slog.Logger, cfg *config.Config, transport Transport, scheduler *Scheduler) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		transport: transport,
		scheduler: scheduler,
	}
}

// Run starts the transport for the configured mode and the scheduler, and
// blocks until ctx is canceled or a component fails. It returns nil on a
// graceful stop.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...", "mode", b.cfg.Mode)

	g, gCtx := errgroup.WithContext(ctx)

	switch b.cfg.Mode {
	case config.ModePolling:
		if err := b.startPolling(gCtx, g); err != nil {
			return err
		}
	case config.ModeWebhook:
		if err := b.startWebhook(gCtx, g); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", config.ErrConfiguration, b.cfg.Mode)
	}

	if b.scheduler != nil {
		g.Go(func() error {
			b.logger.Info("Starting scheduler...")
			if err := b.scheduler.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			b.logger.Info("Shutdown signal received, stopping scheduler...")
			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

func (b *Bot) startPolling(ctx context.Context, g *errgroup.Group) error {
	if err := telegram.ClearWebhook(ctx, b.transport, b.logger); err != nil {
		return err
	}

	g.Go(func() error {
		b.logger.Info("Starting Telegram long polling...")
		b.transport.Start(ctx)
		b.logger.Info("Telegram long polling stopped.")

		if ctx.Err() == nil {
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})
	return nil
}

func (b *Bot) startWebhook(ctx context.Context, g *errgroup.Group) error {
	webhookURL, err := telegram.WebhookURL(b.cfg.Webhook.ExternalURL, b.cfg.Webhook.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}
	if err := telegram.RegisterWebhook(ctx, b.transport, webhookURL, b.cfg.Webhook.SecretToken, b.logger); err != nil {
		return err
	}

	router := server.NewRouter(b.cfg.Webhook.Path, b.transport.WebhookHandler(), b.logger)
	srv := server.New(b.cfg.Server, router, b.logger)

	g.Go(func() error {
		b.logger.Info("Starting Telegram webhook workers...")
		b.transport.StartWebhook(ctx)
		b.logger.Info("Telegram webhook workers stopped.")
		return nil
	})
	g.Go(func() error {
		return srv.Run(ctx)
	})
	return nil
}
