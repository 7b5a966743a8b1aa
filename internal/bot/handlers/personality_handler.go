package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ashorokhov/boltun/internal/chat"
)

// NewPersonalityHandler returns a handler for the /personality command.
// With an argument it sets the caller's personality override; without one
// it reports the personality currently in effect.
func NewPersonalityHandler(deps *Deps) bot.HandlerFunc {
	return personalityHandler{deps}.Handle
}

type personalityHandler struct {
	deps *Deps
}

func (h personalityHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "personality")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	arg := commandArgument(update.Message.Text)
	if arg == "" {
		current := h.deps.Contexts.Personality(ctx, userID)
		h.deps.Sender.Send(ctx, chatID, current, update.Message.ID, false)
		return
	}

	if err := h.deps.Contexts.SetPersonality(ctx, userID, arg); err != nil {
		if errors.Is(err, chat.ErrEmptyContent) {
			h.deps.Sender.Send(ctx, chatID, h.deps.Config.Telegram.Messages.EmptyMessage, update.Message.ID, false)
			return
		}
		log.ErrorContext(ctx, "Failed to set personality", "error", err, "user_id", userID)
		return
	}

	log.InfoContext(ctx, "Set personality override", "user_id", userID)
	h.deps.Sender.Send(ctx, chatID, h.deps.Config.Telegram.Messages.PersonalitySet, update.Message.ID, false)
}

// commandArgument strips the leading /command token (with optional @bot
// suffix) and returns the rest.
func commandArgument(text string) string {
	if !strings.HasPrefix(text, "/") {
		return strings.TrimSpace(text)
	}
	_, rest, found := strings.Cut(text, " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(rest)
}
