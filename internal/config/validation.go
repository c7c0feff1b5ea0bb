package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldEnv names the environment variable behind a validated field, so that
// startup errors point the operator at the right knob.
var fieldEnv = map[string]string{
	"Config.Mode":                "BOT_MODE",
	"Config.Log.Level":           "LOG_LEVEL",
	"Config.Telegram.Token":      "BOT_TOKEN",
	"Config.Telegram.Workers":    "BOT_WORKERS",
	"Config.AI.Provider":         "AI_PROVIDER",
	"Config.AI.OpenAIAPIKey":     "OPENAI_API_KEY",
	"Config.AI.GeminiAPIKey":     "GEMINI_API_KEY",
	"Config.AI.BaseURL":          "OPENAI_BASE_URL",
	"Config.AI.Model":            "AI_MODEL",
	"Config.AI.MaxTokens":        "AI_MAX_TOKENS",
	"Config.AI.Temperature":      "AI_TEMPERATURE",
	"Config.AI.SystemPrompt":     "AI_SYSTEM_PROMPT",
	"Config.AI.FallbackMessage":  "AI_FALLBACK_MESSAGE",
	"Config.Webhook.ExternalURL": "RENDER_EXTERNAL_URL",
	"Config.Server.Port":         "PORT",

	"Config.Database.RetentionDays": "DB_RETENTION_DAYS",
}

// Validate checks field constraints and cross-field rules. Every returned
// error wraps ErrConfiguration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if c.Mode == ModeWebhook && c.Webhook.ExternalURL == "" {
		return fmt.Errorf("%w: webhook mode requires RENDER_EXTERNAL_URL (or EXTERNAL_URL)", ErrConfiguration)
	}

	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && strings.TrimSpace(task.Schedule) == "" {
			return fmt.Errorf("%w: scheduler task %q is enabled but has no schedule", ErrConfiguration, name)
		}
	}

	return nil
}

func describe(fe validator.FieldError) string {
	name := fe.Namespace()
	if env, ok := fieldEnv[name]; ok {
		name = env + " environment variable"
	}
	switch fe.Tag() {
	case "required", "required_if":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fmt.Sprint(fe.Value()))
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %q", name, fmt.Sprint(fe.Value()))
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s, got %v", name, fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation", name, fe.Tag())
	}
}
