// Package telegram handles Telegram bot construction, handler registration,
// and outbound delivery.
package telegram

import (
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"

	"github.com/ashorokhov/boltun/internal/bot/handlers"
)

// NewBot creates a Telegram bot instance.
func NewBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created")
	return b, nil
}

// applyMiddleware wraps a handler with middleware, first entry outermost.
func applyMiddleware(handler bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// RegisterHandlers registers command handlers with the bot instance,
// applying each handler's middleware.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, registered map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	log := logger.With("component", "handler_registry")

	for _, rh := range registered {
		if rh.Handler == nil {
			log.Warn("Skipping registration for nil handler", "pattern", rh.Pattern)
			continue
		}
		final := applyMiddleware(rh.Handler, rh.Middleware)
		b.RegisterHandler(rh.HandlerType, rh.Pattern, rh.MatchType, final)
		log.Debug("Registered handler", "pattern", rh.Pattern, "middleware_count", len(rh.Middleware))
	}

	log.Info("Registered Telegram handlers", "count", len(registered))
	return nil
}
