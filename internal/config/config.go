// Package config provides configuration loading, validation, and management
// for the bot. Values come from built-in defaults, an optional YAML file and
// the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrConfiguration is wrapped by every error returned from Load.
var ErrConfiguration = errors.New("configuration error")

// Mode selects how updates reach the bot.
type Mode string

const (
	// ModePolling fetches updates with long polling.
	ModePolling Mode = "polling"
	// ModeWebhook receives updates pushed to an HTTP endpoint.
	ModeWebhook Mode = "webhook"
)

// Config defines the application configuration for all components.
type Config struct {
	Mode      Mode            `mapstructure:"mode" validate:"oneof=polling webhook"`
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	AI        AIConfig        `mapstructure:"ai"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot API settings.
type TelegramConfig struct {
	Token           string `mapstructure:"token"            validate:"required"`
	Workers         int    `mapstructure:"workers"          validate:"min=1,max=64"`
	TypingIndicator bool   `mapstructure:"typing_indicator"`
}

// AIConfig describes the completion provider and the fixed prompt parameters.
type AIConfig struct {
	Provider        string  `mapstructure:"provider"         validate:"oneof=openai gemini"`
	OpenAIAPIKey    string  `mapstructure:"openai_api_key"   validate:"required_if=Provider openai"`
	GeminiAPIKey    string  `mapstructure:"gemini_api_key"   validate:"required_if=Provider gemini"`
	BaseURL         string  `mapstructure:"base_url"         validate:"omitempty,url"`
	Model           string  `mapstructure:"model"            validate:"required"`
	MaxTokens       int     `mapstructure:"max_tokens"       validate:"min=1,max=4096"`
	Temperature     float32 `mapstructure:"temperature"      validate:"min=0,max=2"`
	SystemPrompt    string  `mapstructure:"system_prompt"    validate:"required"`
	FallbackMessage string  `mapstructure:"fallback_message" validate:"required"`
}

// WebhookConfig is used only in webhook mode.
type WebhookConfig struct {
	ExternalURL string `mapstructure:"external_url" validate:"omitempty,url"`
	Path        string `mapstructure:"path"         validate:"required,startswith=/"`
	SecretToken string `mapstructure:"secret_token"`
}

// ServerConfig is the listener for webhook mode.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"             validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s,max=5m"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig enables the exchange journal when Path is set.
type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days" validate:"min=1"`
}

// Enabled reports whether exchanges are persisted.
func (d DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.Path) != ""
}

// SchedulerConfig lists scheduled tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Load reads defaults, the optional config file named by CONFIG_PATH
// (config.yaml by default) and the environment, resolves the deployment
// mode and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("%w: bind %s: %v", ErrConfiguration, key, err)
		}
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrConfiguration, configPath, err)
		}
		slog.Debug("configuration file loaded", "path", configPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: failed to stat config file %s: %v", ErrConfiguration, configPath, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	cfg.Mode = resolveMode(cfg.Mode, cfg.Webhook.ExternalURL)
	cfg.Webhook.ExternalURL = strings.TrimRight(strings.TrimSpace(cfg.Webhook.ExternalURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveMode picks webhook mode when an external URL is known and no
// explicit mode was requested.
func resolveMode(raw Mode, externalURL string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(string(raw)))) {
	case ModePolling:
		return ModePolling
	case ModeWebhook:
		return ModeWebhook
	case "":
		if strings.TrimSpace(externalURL) != "" {
			return ModeWebhook
		}
		return ModePolling
	default:
		return raw
	}
}
