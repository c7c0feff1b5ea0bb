package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/empathybot/internal/ai"
	"github.com/edgard/empathybot/internal/database"
	"github.com/edgard/empathybot/internal/telegram"
)

// Completer produces the reply for one user message. *ai.Client implements it.
type Completer interface {
	Complete(ctx context.Context, userText string) ai.Result
}

// Sender is the part of the Telegram client the handlers reply through.
// *bot.Bot implements it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	telegram.ChatActionSender
}

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger          *slog.Logger
	AI              Completer
	TypingIndicator bool

	// Store is optional; nil disables the exchange journal.
	Store database.Store
}
