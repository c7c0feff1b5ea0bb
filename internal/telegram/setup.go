// Package telegram builds the go-telegram/bot client and wraps the few Bot API
// calls the transport needs besides sending replies.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-telegram/bot"
)

// NewTelegramBot creates a new Telegram bot instance using the go-telegram/bot library.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully", "token_prefix", tokenPrefix(token))
	return b, nil
}

func tokenPrefix(token string) string {
	if i := strings.IndexByte(token, ':'); i > 0 {
		return token[:i] + ":..."
	}
	if len(token) > 4 {
		return token[:4] + "..."
	}
	return "..."
}

// WebhookManager is the part of *bot.Bot that manages webhook registration.
type WebhookManager interface {
	SetWebhook(ctx context.Context, params *bot.SetWebhookParams) (bool, error)
	DeleteWebhook(ctx context.Context, params *bot.DeleteWebhookParams) (bool, error)
}

// WebhookURL joins the public base URL with the webhook route.
func WebhookURL(base, path string) (string, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return "", fmt.Errorf("webhook base url is empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid webhook base url %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("webhook base url %q must be absolute", base)
	}
	joined, err := url.JoinPath(base, path)
	if err != nil {
		return "", fmt.Errorf("failed to join webhook url: %w", err)
	}
	return joined, nil
}

// RegisterWebhook points Telegram at webhookURL.
func RegisterWebhook(ctx context.Context, m WebhookManager, webhookURL, secretToken string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_webhook")

	ok, err := m.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:         webhookURL,
		SecretToken: secretToken,
	})
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	if !ok {
		return fmt.Errorf("telegram rejected webhook %s", webhookURL)
	}

	log.InfoContext(ctx, "Webhook registered", "url", webhookURL, "secret_token", secretToken != "")
	return nil
}

// ClearWebhook removes any registered webhook so that getUpdates is accepted.
// Pending updates are kept.
func ClearWebhook(ctx context.Context, m WebhookManager, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := m.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: false}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	logger.With("component", "telegram_webhook").DebugContext(ctx, "Webhook cleared for polling")
	return nil
}
