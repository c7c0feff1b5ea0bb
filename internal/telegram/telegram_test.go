package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		update *models.Update
		want   UpdateKind
	}{
		{"nil update", nil, KindOther},
		{"callback only", &models.Update{ID: 1, CallbackQuery: &models.CallbackQuery{ID: "q"}}, KindOther},
		{"sticker", &models.Update{ID: 2, Message: &models.Message{Sticker: &models.Sticker{FileID: "s"}}}, KindNoText},
		{"plain text", &models.Update{ID: 3, Message: &models.Message{Text: "Hello"}}, KindText},
		{"slash command", &models.Update{ID: 4, Message: &models.Message{Text: "/start"}}, KindCommand},
		{
			name: "command entity",
			update: &models.Update{ID: 5, Message: &models.Message{
				Text:     "/help@empathybot",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: 16}},
			}},
			want: KindCommand,
		},
		{
			name: "command entity not at start",
			update: &models.Update{ID: 6, Message: &models.Message{
				Text:     "try /help",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 4, Length: 5}},
			}},
			want: KindText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.update); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSenderName(t *testing.T) {
	t.Parallel()

	if got := SenderName(&models.Message{From: &models.User{ID: 42, Username: "anna"}}); got != "@anna" {
		t.Errorf("SenderName(with username) = %q, want @anna", got)
	}
	if got := SenderName(&models.Message{From: &models.User{ID: 42}}); got != "42" {
		t.Errorf("SenderName(without username) = %q, want 42", got)
	}
	if got := SenderName(&models.Message{}); got != "unknown" {
		t.Errorf("SenderName(no sender) = %q, want unknown", got)
	}
}

func TestSplitText(t *testing.T) {
	t.Parallel()

	if got := SplitText("", 10); got != nil {
		t.Errorf("SplitText(empty) = %v, want nil", got)
	}

	short := "привет"
	if got := SplitText(short, 10); len(got) != 1 || got[0] != short {
		t.Errorf("SplitText(short) = %v, want single chunk", got)
	}

	long := strings.Repeat("слово ", 10) // 60 runes
	chunks := SplitText(long, 16)
	if strings.Join(chunks, "") != long {
		t.Fatalf("chunks do not reassemble the input: %q", chunks)
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > 16 {
			t.Errorf("chunk %d has %d runes, want <= 16", i, n)
		}
	}
	if !strings.HasSuffix(chunks[0], " ") {
		t.Errorf("first chunk %q should break after a space", chunks[0])
	}
}

func TestWebhookURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base    string
		path    string
		want    string
		wantErr bool
	}{
		{"https://bot.onrender.com", "/telegram", "https://bot.onrender.com/telegram", false},
		{"https://bot.onrender.com/", "/telegram", "https://bot.onrender.com/telegram", false},
		{"https://example.com/prefix", "/telegram", "https://example.com/prefix/telegram", false},
		{"", "/telegram", "", true},
		{"bot.onrender.com", "/telegram", "", true},
	}

	for _, tt := range tests {
		got, err := WebhookURL(tt.base, tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("WebhookURL(%q, %q) error = %v, wantErr %v", tt.base, tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("WebhookURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestTokenPrefix(t *testing.T) {
	t.Parallel()

	if got := tokenPrefix("123456:SECRET"); got != "123456:..." {
		t.Errorf("tokenPrefix = %q", got)
	}
	if got := tokenPrefix("abc"); got != "..." {
		t.Errorf("tokenPrefix(short) = %q", got)
	}
}

type fakeWebhookManager struct {
	set     *bot.SetWebhookParams
	deleted *bot.DeleteWebhookParams
	ok      bool
	err     error
}

func (f *fakeWebhookManager) SetWebhook(_ context.Context, p *bot.SetWebhookParams) (bool, error) {
	f.set = p
	return f.ok, f.err
}

func (f *fakeWebhookManager) DeleteWebhook(_ context.Context, p *bot.DeleteWebhookParams) (bool, error) {
	f.deleted = p
	return f.ok, f.err
}

func TestRegisterWebhook(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		m := &fakeWebhookManager{ok: true}
		if err := RegisterWebhook(context.Background(), m, "https://x.example/telegram", "s3cret", nil); err != nil {
			t.Fatalf("RegisterWebhook() error = %v", err)
		}
		if m.set == nil || m.set.URL != "https://x.example/telegram" || m.set.SecretToken != "s3cret" {
			t.Errorf("SetWebhook params = %+v", m.set)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		t.Parallel()
		m := &fakeWebhookManager{ok: false}
		if err := RegisterWebhook(context.Background(), m, "https://x.example/telegram", "", nil); err == nil {
			t.Error("RegisterWebhook() error = nil, want rejection error")
		}
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		apiErr := errors.New("unauthorized")
		m := &fakeWebhookManager{err: apiErr}
		if err := RegisterWebhook(context.Background(), m, "https://x.example/telegram", "", nil); !errors.Is(err, apiErr) {
			t.Errorf("RegisterWebhook() error = %v, want wrapped %v", err, apiErr)
		}
	})

	t.Run("clear keeps pending updates", func(t *testing.T) {
		t.Parallel()
		m := &fakeWebhookManager{ok: true}
		if err := ClearWebhook(context.Background(), m, nil); err != nil {
			t.Fatalf("ClearWebhook() error = %v", err)
		}
		if m.deleted == nil || m.deleted.DropPendingUpdates {
			t.Errorf("DeleteWebhook params = %+v", m.deleted)
		}
	})
}

type countingActionSender struct {
	mu    sync.Mutex
	calls []*bot.SendChatActionParams
}

func (c *countingActionSender) SendChatAction(_ context.Context, p *bot.SendChatActionParams) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, p)
	return true, nil
}

func (c *countingActionSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func TestKeepTyping(t *testing.T) {
	t.Parallel()

	s := &countingActionSender{}
	stop := KeepTyping(context.Background(), s, 77, nil)
	if s.count() != 1 {
		t.Fatalf("actions before stop = %d, want 1 sent synchronously", s.count())
	}
	stop()

	after := s.count()
	if after < 1 {
		t.Fatalf("actions after stop = %d", after)
	}
	p := s.calls[0]
	if p.ChatID != int64(77) || p.Action != models.ChatActionTyping {
		t.Errorf("first action = %+v, want typing in chat 77", p)
	}
}
