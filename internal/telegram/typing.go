package telegram

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Telegram clears a chat action after about five seconds.
const typingInterval = 4 * time.Second

// ChatActionSender is the part of *bot.Bot used for chat actions.
type ChatActionSender interface {
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

// KeepTyping sends the "typing" action to chatID and repeats it until the
// returned stop function is called or ctx is done. The first action is sent
// before KeepTyping returns. stop blocks until the refresh loop has exited.
func KeepTyping(ctx context.Context, s ChatActionSender, chatID int64, logger *slog.Logger) (stop func()) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	send := func() {
		if _, err := s.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping}); err != nil && ctx.Err() == nil {
			logger.DebugContext(ctx, "typing action failed", "error", err, "chat_id", chatID)
		}
	}

	send()

	go func() {
		defer close(done)
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				send()
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
