// Package handlers contains Telegram command and message handlers, their
// registration logic, and middleware.
package handlers

import (
	"context"
	"log/slog"

	"github.com/ashorokhov/boltun/internal/chat"
	"github.com/ashorokhov/boltun/internal/config"
)

// Responder delivers outbound messages; implemented by the telegram
// package's Sender.
type Responder interface {
	Send(ctx context.Context, chatID int64, text string, replyTo int, escape bool)
}

// AdminCheckFunc reports whether a user administers a chat; implemented by
// the transport.
type AdminCheckFunc func(ctx context.Context, chatID, userID int64) bool

// Deps provides dependencies for all handlers. Identity and Resolver are
// filled in after the bot's own account is known, before handling starts.
type Deps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Contexts     *chat.ContextStore
	Groups       *chat.GroupRegistry
	Resolver     *chat.Resolver
	Orchestrator *chat.Orchestrator
	Sender       Responder
	IsChatAdmin  AdminCheckFunc

	BotID       int64
	BotUsername string
}
