package telegram

import (
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"
)

// UpdateKind classifies an inbound update for routing and metrics.
type UpdateKind string

const (
	KindText    UpdateKind = "text"
	KindCommand UpdateKind = "command"
	// KindNoText is a message without text: stickers, photos, voice and so on.
	KindNoText UpdateKind = "no_text"
	// KindOther is any update that carries no new message.
	KindOther UpdateKind = "other"
)

// Classify reports what kind of update u is.
func Classify(u *models.Update) UpdateKind {
	if u == nil || u.Message == nil {
		return KindOther
	}
	if u.Message.Text == "" {
		return KindNoText
	}
	if IsCommand(u.Message) {
		return KindCommand
	}
	return KindText
}

// IsCommand reports whether msg starts with a bot command.
func IsCommand(msg *models.Message) bool {
	if msg == nil {
		return false
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			return true
		}
	}
	return strings.HasPrefix(msg.Text, "/")
}

// SenderName returns "@username" when the sender has one and the numeric id
// otherwise.
func SenderName(msg *models.Message) string {
	if msg == nil || msg.From == nil {
		return "unknown"
	}
	if msg.From.Username != "" {
		return "@" + msg.From.Username
	}
	return strconv.FormatInt(msg.From.ID, 10)
}

// MaxMessageLength is the Bot API limit for sendMessage text, in characters.
const MaxMessageLength = 4096

// SplitText cuts text into chunks of at most size runes, preferring to break
// on a newline or space in the second half of a chunk.
func SplitText(text string, size int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if size <= 0 {
		size = MaxMessageLength
	}

	var chunks []string
	for len(runes) > size {
		cut := size
		for i := size - 1; i >= size/2; i-- {
			if runes[i] == '\n' || runes[i] == ' ' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return append(chunks, string(runes))
}
