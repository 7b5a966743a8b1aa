package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps *Deps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps *Deps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	log.InfoContext(ctx, "Handling /start", "chat_id", update.Message.Chat.ID, "user_id", update.Message.From.ID)

	welcome := h.deps.Config.Telegram.Messages.Welcome
	if h.deps.BotUsername != "" {
		welcome = strings.ReplaceAll(welcome, "@botname", "@"+h.deps.BotUsername)
	}
	h.deps.Sender.Send(ctx, update.Message.Chat.ID, welcome, 0, false)
}
