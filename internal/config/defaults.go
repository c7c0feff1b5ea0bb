package config

import "time"

const defaultConfigPath = "config.yaml"

// DefaultSystemPrompt is the counselor persona sent as the system message.
const DefaultSystemPrompt = "Ты — добрый и поддерживающий психолог. Отвечай мягко, с сочувствием, без медицинских диагнозов."

// DefaultFallbackMessage is sent whenever the completion provider fails.
const DefaultFallbackMessage = "Извини, произошла ошибка при подключении к ИИ."

var defaults = map[string]any{
	"log.level": "info",
	"log.json":  false,

	"telegram.workers":          4,
	"telegram.typing_indicator": false,

	"ai.provider":         "openai",
	"ai.model":            "gpt-3.5-turbo",
	"ai.max_tokens":       150,
	"ai.temperature":      0.7,
	"ai.system_prompt":    DefaultSystemPrompt,
	"ai.fallback_message": DefaultFallbackMessage,

	"webhook.path": "/telegram",

	"server.host":             "0.0.0.0",
	"server.port":             8000,
	"server.shutdown_timeout": 10 * time.Second,

	"database.retention_days": 30,

	"scheduler.tasks": map[string]any{
		"sql_maintenance":    map[string]any{"enabled": true, "schedule": "0 0 4 * * 0"},
		"exchange_retention": map[string]any{"enabled": true, "schedule": "0 30 3 * * *"},
	},
}

// envBindings maps config keys to the environment variables that set them.
// The first variable listed wins when several are present.
var envBindings = map[string][]string{
	"mode": {"BOT_MODE"},

	"log.level": {"LOG_LEVEL"},
	"log.json":  {"LOG_JSON"},

	"telegram.token":            {"BOT_TOKEN"},
	"telegram.workers":          {"BOT_WORKERS"},
	"telegram.typing_indicator": {"BOT_TYPING_INDICATOR"},

	"ai.provider":         {"AI_PROVIDER"},
	"ai.openai_api_key":   {"OPENAI_API_KEY"},
	"ai.gemini_api_key":   {"GEMINI_API_KEY"},
	"ai.base_url":         {"OPENAI_BASE_URL"},
	"ai.model":            {"AI_MODEL"},
	"ai.max_tokens":       {"AI_MAX_TOKENS"},
	"ai.temperature":      {"AI_TEMPERATURE"},
	"ai.system_prompt":    {"AI_SYSTEM_PROMPT"},
	"ai.fallback_message": {"AI_FALLBACK_MESSAGE"},

	"webhook.external_url": {"RENDER_EXTERNAL_URL", "EXTERNAL_URL"},
	"webhook.secret_token": {"WEBHOOK_SECRET_TOKEN"},

	"server.port": {"PORT"},

	"database.path":           {"DB_PATH"},
	"database.retention_days": {"DB_RETENTION_DAYS"},
}
