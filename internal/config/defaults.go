package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"

	DefaultAIBackend     = "openai"
	DefaultAIBaseURL     = "https://api.openai.com/v1"
	DefaultAIModel       = "gpt-4o"
	DefaultAITemperature = 0.7
	DefaultAITimeout     = 2 * time.Minute
	DefaultAIMaxTokens   = 1024

	DefaultHistorySize      = 10
	DefaultRateWindow       = time.Minute
	DefaultRateMaxRequests  = 5
	DefaultSpontaneousOdds  = 0 // disabled unless configured
	DefaultMaxMessageLength = 4096
	DefaultLengthMargin     = 256 // headroom for escaping overhead

	DefaultDBPath = "boltun.db"

	DefaultPersonality = "You are a friendly conversation partner. Keep replies short and conversational."
)

// DefaultMessages are the stock user-visible texts.
var DefaultMessages = BotMessages{
	Welcome:         "Hi! Write to me directly, or mention me in a group, and I'll answer.",
	Help:            "Talk to me in private chat, mention me in a group, or reply to one of my messages. Admin commands: /enable, /disable. Personal commands: /reset, /personality.",
	EmptyMessage:    "Looks like you sent an empty message. Please send some text.",
	ReplyUnreadable: "I can't read the message you replied to.",
	RateLimited:     "You're sending requests too often. Please wait a bit.",
	ModelError:      "Something went wrong while generating a reply. Please try again.",
	ModelTimeout:    "The reply took too long. Please try again later.",
	GroupEnabled:    "I'm awake. Mention me or reply to my messages.",
	GroupDisabled:   "Going quiet in this chat. An admin can /enable me again.",
	AdminsOnly:      "Only chat administrators can do that.",
	HistoryReset:    "Your conversation history has been cleared.",
	PersonalitySet:  "Got it, I'll act like that from now on.",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", true)

	// Secrets default to empty so the keys are known to viper and can be
	// supplied via environment variables; validation still requires them.
	v.SetDefault("telegram.token", "")
	v.SetDefault("ai.token", "")

	v.SetDefault("ai.backend", DefaultAIBackend)
	v.SetDefault("ai.base_url", DefaultAIBaseURL)
	v.SetDefault("ai.model", DefaultAIModel)
	v.SetDefault("ai.temperature", DefaultAITemperature)
	v.SetDefault("ai.timeout", DefaultAITimeout)
	v.SetDefault("ai.max_tokens", DefaultAIMaxTokens)

	v.SetDefault("chat.history_size", DefaultHistorySize)
	v.SetDefault("chat.rate_window", DefaultRateWindow)
	v.SetDefault("chat.rate_max_requests", DefaultRateMaxRequests)
	v.SetDefault("chat.spontaneous_odds", DefaultSpontaneousOdds)
	v.SetDefault("chat.canned_replies", []string{})
	v.SetDefault("chat.mention_prefers_reply", true)
	v.SetDefault("chat.default_personality", DefaultPersonality)
	v.SetDefault("chat.max_message_length", DefaultMaxMessageLength)
	v.SetDefault("chat.length_margin", DefaultLengthMargin)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("telegram.messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("telegram.messages.help", DefaultMessages.Help)
	v.SetDefault("telegram.messages.empty_message", DefaultMessages.EmptyMessage)
	v.SetDefault("telegram.messages.reply_unreadable", DefaultMessages.ReplyUnreadable)
	v.SetDefault("telegram.messages.rate_limited", DefaultMessages.RateLimited)
	v.SetDefault("telegram.messages.model_error", DefaultMessages.ModelError)
	v.SetDefault("telegram.messages.model_timeout", DefaultMessages.ModelTimeout)
	v.SetDefault("telegram.messages.group_enabled", DefaultMessages.GroupEnabled)
	v.SetDefault("telegram.messages.group_disabled", DefaultMessages.GroupDisabled)
	v.SetDefault("telegram.messages.admins_only", DefaultMessages.AdminsOnly)
	v.SetDefault("telegram.messages.history_reset", DefaultMessages.HistoryReset)
	v.SetDefault("telegram.messages.personality_set", DefaultMessages.PersonalitySet)

	v.SetDefault("scheduler.tasks.db_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.db_maintenance.cron", "0 4 * * *")
}
