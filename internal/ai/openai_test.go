package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type chatRequestBody struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newOpenAITestServer(t *testing.T, status int, body string, seen *chatRequestBody) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAICompleterRequestShape(t *testing.T) {
	t.Parallel()

	var seen chatRequestBody
	srv := newOpenAITestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-3.5-turbo",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "  Всё будет хорошо.  "}, "finish_reason": "stop"}]
	}`, &seen)

	c, err := NewClient(NewOpenAICompleter("sk-test", srv.URL+"/v1"), testOptions(), discardLogger())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if got := c.Ask(context.Background(), "Мне грустно"); got != "Всё будет хорошо." {
		t.Errorf("Ask() = %q", got)
	}

	if seen.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", seen.Model)
	}
	if seen.MaxTokens != 150 {
		t.Errorf("max_tokens = %d, want 150", seen.MaxTokens)
	}
	if seen.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", seen.Temperature)
	}
	if len(seen.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(seen.Messages))
	}
	if seen.Messages[0].Role != "system" || seen.Messages[1].Role != "user" || seen.Messages[1].Content != "Мне грустно" {
		t.Errorf("messages = %+v", seen.Messages)
	}
}

func TestOpenAICompleterErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
	}{
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			wantKind: KindAuth,
		},
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     `{"error": {"message": "Rate limit reached", "type": "requests", "code": "rate_limit_exceeded"}}`,
			wantKind: KindRateLimit,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error": {"message": "The server had an error", "type": "server_error"}}`,
			wantKind: KindAPI,
		},
		{
			name:     "no choices",
			status:   http.StatusOK,
			body:     `{"id": "x", "object": "chat.completion", "choices": []}`,
			wantKind: KindEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newOpenAITestServer(t, tt.status, tt.body, nil)
			c, err := NewClient(NewOpenAICompleter("sk-test", srv.URL+"/v1"), testOptions(), discardLogger())
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}

			res := c.Complete(context.Background(), "Hello")
			if res.Text != testOptions().FallbackMessage {
				t.Errorf("Text = %q, want fallback", res.Text)
			}
			if got := KindOf(res.Err); got != tt.wantKind {
				t.Errorf("kind = %q, want %q (err %v)", got, tt.wantKind, res.Err)
			}
		})
	}
}

func TestOpenAICompleterTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(NewOpenAICompleter("sk-test", url+"/v1"), testOptions(), discardLogger())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	res := c.Complete(context.Background(), "Hello")
	if got := KindOf(res.Err); got != KindTransport {
		t.Errorf("kind = %q, want %q (err %v)", got, KindTransport, res.Err)
	}
	var aiErr *Error
	if !errors.As(res.Err, &aiErr) || aiErr.Provider != "openai" {
		t.Errorf("err = %#v, want *Error from openai", res.Err)
	}
}
