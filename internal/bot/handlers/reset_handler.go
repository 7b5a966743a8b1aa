package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewResetHandler returns a handler for the /reset command, which clears
// the caller's conversation memory. The personality override is kept.
func NewResetHandler(deps *Deps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

type resetHandler struct {
	deps *Deps
}

func (h resetHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	h.deps.Contexts.Reset(userID)
	log.InfoContext(ctx, "Cleared conversation history", "user_id", userID)

	h.deps.Sender.Send(ctx, chatID, h.deps.Config.Telegram.Messages.HistoryReset, update.Message.ID, false)
}
