package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/edgard/empathybot/internal/ai"
	"github.com/edgard/empathybot/internal/database"
	"github.com/edgard/empathybot/internal/metrics"
	"github.com/edgard/empathybot/internal/telegram"
)

const (
	sendMessageTimeout = 10 * time.Second
	dbSaveTimeout      = 5 * time.Second
)

type messageHandler struct {
	deps HandlerDeps
}

// NewMessageHandler creates the default handler: every plain text message is
// answered once with the model's reply or the fallback text. Commands and
// updates without text get no reply.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handle(ctx, b, update)
}

func (h messageHandler) handle(ctx context.Context, s Sender, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	switch telegram.Classify(update) {
	case telegram.KindOther, telegram.KindNoText:
		var updateID int64
		if update != nil {
			updateID = update.ID
		}
		log.WarnContext(ctx, "Received update without text message", "update_id", updateID)
		return
	case telegram.KindCommand:
		log.DebugContext(ctx, "Ignoring command", "update_id", update.ID, "text", update.Message.Text)
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	log = log.With("request_id", uuid.NewString(), "chat_id", chatID)
	log.InfoContext(ctx, "Received message", "from", telegram.SenderName(msg), "text", msg.Text)

	start := time.Now()
	var stopTyping func()
	if h.deps.TypingIndicator {
		stopTyping = telegram.KeepTyping(ctx, s, chatID, log)
	}
	res := h.deps.AI.Complete(ctx, msg.Text)
	if stopTyping != nil {
		stopTyping()
	}
	elapsed := time.Since(start)

	status := "ok"
	if !res.OK() {
		status = "fallback"
	}
	if err := h.sendReply(ctx, s, msg, res.Text); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err)
		metrics.IncReply("send_error")
	} else {
		log.InfoContext(ctx, "Sent reply", "status", status, "duration", elapsed)
		metrics.IncReply(status)
	}

	h.journal(ctx, msg, res, elapsed)
}

// sendReply sends text to the chat msg came from. Outside private chats the
// first chunk quotes msg.
func (h messageHandler) sendReply(ctx context.Context, s Sender, msg *models.Message, text string) error {
	for i, chunk := range telegram.SplitText(text, telegram.MaxMessageLength) {
		params := &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   chunk,
		}
		if i == 0 && msg.Chat.Type != models.ChatTypePrivate && msg.ID > 0 {
			params.ReplyParameters = &models.ReplyParameters{MessageID: msg.ID, AllowSendingWithoutReply: true}
		}

		sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
		_, err := s.SendMessage(sendCtx, params)
		cancel()
		if err != nil {
			return err
		}
	}
	return nil
}

func (h messageHandler) journal(ctx context.Context, msg *models.Message, res ai.Result, elapsed time.Duration) {
	if h.deps.Store == nil {
		return
	}

	e := &database.Exchange{
		ChatID:      msg.Chat.ID,
		Username:    telegram.SenderName(msg),
		RequestText: msg.Text,
		ReplyText:   res.Text,
		Failed:      !res.OK(),
		ErrorKind:   string(ai.KindOf(res.Err)),
		DurationMs:  elapsed.Milliseconds(),
	}
	if msg.From != nil {
		e.UserID = msg.From.ID
	}

	dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dbSaveTimeout)
	defer cancel()
	if err := h.deps.Store.SaveExchange(dbCtx, e); err != nil {
		h.deps.Logger.WarnContext(ctx, "Failed to journal exchange", "error", err, "chat_id", msg.Chat.ID)
	}
}
