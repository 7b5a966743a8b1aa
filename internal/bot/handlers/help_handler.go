package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps *Deps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

type helpHandler struct {
	deps *Deps
}

func (h helpHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.deps.Sender.Send(ctx, update.Message.Chat.ID, h.deps.Config.Telegram.Messages.Help, 0, false)
}
