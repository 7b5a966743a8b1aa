// Package config provides configuration loading and validation for the
// boltun application. Values come from defaults, an optional config.yaml
// file, and BOLTUN_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration parameters.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	AI        AIConfig        `mapstructure:"ai"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and the user-visible message strings.
type TelegramConfig struct {
	Token    string      `mapstructure:"token" validate:"required"`
	Messages BotMessages `mapstructure:"messages"`
}

// BotMessages defines the texts the bot sends outside of model replies.
type BotMessages struct {
	Welcome         string `mapstructure:"welcome"          validate:"required"`
	Help            string `mapstructure:"help"             validate:"required"`
	EmptyMessage    string `mapstructure:"empty_message"    validate:"required"`
	ReplyUnreadable string `mapstructure:"reply_unreadable" validate:"required"`
	RateLimited     string `mapstructure:"rate_limited"     validate:"required"`
	ModelError      string `mapstructure:"model_error"      validate:"required"`
	ModelTimeout    string `mapstructure:"model_timeout"    validate:"required"`
	GroupEnabled    string `mapstructure:"group_enabled"    validate:"required"`
	GroupDisabled   string `mapstructure:"group_disabled"   validate:"required"`
	AdminsOnly      string `mapstructure:"admins_only"      validate:"required"`
	HistoryReset    string `mapstructure:"history_reset"    validate:"required"`
	PersonalitySet  string `mapstructure:"personality_set"  validate:"required"`
}

// AIConfig configures the language-model backend.
type AIConfig struct {
	Backend     string        `mapstructure:"backend"     validate:"oneof=openai gemini"`
	Token       string        `mapstructure:"token"       validate:"required"`
	BaseURL     string        `mapstructure:"base_url"    validate:"omitempty,url"`
	Model       string        `mapstructure:"model"       validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"min=1s,max=10m"`
	MaxTokens   int           `mapstructure:"max_tokens"  validate:"min=0"`
}

// ChatConfig holds the intent-engine policy knobs.
type ChatConfig struct {
	HistorySize         int           `mapstructure:"history_size"          validate:"min=1,max=100"`
	RateWindow          time.Duration `mapstructure:"rate_window"           validate:"min=1s"`
	RateMaxRequests     int           `mapstructure:"rate_max_requests"     validate:"min=1"`
	SpontaneousOdds     int           `mapstructure:"spontaneous_odds"      validate:"min=0"`
	CannedReplies       []string      `mapstructure:"canned_replies"`
	MentionPrefersReply bool          `mapstructure:"mention_prefers_reply"`
	DefaultPersonality  string        `mapstructure:"default_personality"   validate:"required"`
	MaxMessageLength    int           `mapstructure:"max_message_length"    validate:"min=64,max=4096"`
	LengthMargin        int           `mapstructure:"length_margin"         validate:"min=0"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig holds per-task scheduling settings, keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

// Load reads configuration from the given path, applies defaults and
// environment overrides, and validates the result. A missing config file is
// not an error; defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOLTUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
