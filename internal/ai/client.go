// Package ai sends a user's message to a chat-completion provider together
// with the fixed system persona and maps every failure to a fallback reply.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/edgard/empathybot/internal/config"
	"github.com/edgard/empathybot/internal/metrics"
)

// Role is the author of a prompt message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one entry of a prompt.
type Message struct {
	Role    Role
	Content string
}

// Request is a single completion call.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// Completer performs one completion call against a provider and returns the
// raw reply text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Provider() string
}

// Result carries the text to send back and, on failure, the classified error.
// On failure Text holds the fallback message.
type Result struct {
	Text string
	Err  error
}

// OK reports whether the text came from the model.
func (r Result) OK() bool { return r.Err == nil }

// Options are the fixed prompt parameters.
type Options struct {
	Model           string
	MaxTokens       int
	Temperature     float32
	SystemPrompt    string
	FallbackMessage string
}

// Client asks the completion provider for a reply to one message.
// It is safe for concurrent use.
type Client struct {
	completer Completer
	opts      Options
	log       *slog.Logger
}

// NewClient wraps a provider completer.
func NewClient(completer Completer, opts Options, logger *slog.Logger) (*Client, error) {
	if completer == nil {
		return nil, fmt.Errorf("completer cannot be nil")
	}
	if strings.TrimSpace(opts.FallbackMessage) == "" {
		return nil, fmt.Errorf("fallback message cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		completer: completer,
		opts:      opts,
		log:       logger.With("component", "ai_client", "provider", completer.Provider()),
	}, nil
}

// New builds the client for the provider selected in cfg.
func New(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (*Client, error) {
	var completer Completer
	switch cfg.Provider {
	case "", "openai":
		completer = NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.BaseURL)
	case "gemini":
		g, err := NewGeminiCompleter(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		completer = g
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}

	return NewClient(completer, Options{
		Model:           cfg.Model,
		MaxTokens:       cfg.MaxTokens,
		Temperature:     cfg.Temperature,
		SystemPrompt:    cfg.SystemPrompt,
		FallbackMessage: cfg.FallbackMessage,
	}, logger)
}

// BuildPrompt returns the two-message prompt: the persona, then the user text.
func BuildPrompt(systemPrompt, userText string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: userText},
	}
}

// FallbackMessage is the text sent when the provider fails.
func (c *Client) FallbackMessage() string { return c.opts.FallbackMessage }

// Provider names the backing completion provider.
func (c *Client) Provider() string { return c.completer.Provider() }

// Ask returns the model's reply to userText, or the fallback message on any
// failure. It never returns an error.
func (c *Client) Ask(ctx context.Context, userText string) string {
	return c.Complete(ctx, userText).Text
}

// Complete calls the provider once, without retries, and reports the outcome.
func (c *Client) Complete(ctx context.Context, userText string) (res Result) {
	req := Request{
		Model:       c.opts.Model,
		Messages:    BuildPrompt(c.opts.SystemPrompt, userText),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = c.fail(ctx, &Error{Kind: KindAPI, Provider: c.Provider(), Err: fmt.Errorf("provider panic: %v", r)}, start)
		}
	}()

	text, err := c.completer.Complete(ctx, req)
	if err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			err = ErrEmptyResponse
		}
	}
	if err != nil {
		return c.fail(ctx, classify(c.Provider(), err), start)
	}

	elapsed := time.Since(start)
	metrics.ObserveCompletion(c.Provider(), c.opts.Model, "ok", elapsed.Milliseconds())
	c.log.DebugContext(ctx, "Completion succeeded", "model", c.opts.Model, "duration", elapsed, "reply_len", len(text))
	return Result{Text: text}
}

func (c *Client) fail(ctx context.Context, aiErr *Error, start time.Time) Result {
	elapsed := time.Since(start)
	metrics.ObserveCompletion(c.Provider(), c.opts.Model, string(aiErr.Kind), elapsed.Milliseconds())
	c.log.ErrorContext(ctx, "Completion failed, using fallback",
		"error", aiErr, "kind", aiErr.Kind, "model", c.opts.Model, "duration", elapsed)
	return Result{Text: c.opts.FallbackMessage, Err: aiErr}
}
