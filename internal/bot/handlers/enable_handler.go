package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewEnableHandler returns a handler for /enable (enable=true) or
// /disable (enable=false). Both are group-admin gated by middleware.
func NewEnableHandler(deps *Deps, enable bool) bot.HandlerFunc {
	return enableHandler{deps: deps, enable: enable}.Handle
}

type enableHandler struct {
	deps   *Deps
	enable bool
}

func (h enableHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "enable")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if update.Message.Chat.Type == models.ChatTypePrivate {
		// The activation flag only exists for group chats.
		h.deps.Sender.Send(ctx, chatID, h.deps.Config.Telegram.Messages.Help, 0, false)
		return
	}

	msgs := h.deps.Config.Telegram.Messages
	if h.enable {
		h.deps.Groups.Enable(ctx, chatID)
		log.InfoContext(ctx, "Enabled group", "chat_id", chatID, "by_user", update.Message.From.ID)
		h.deps.Sender.Send(ctx, chatID, msgs.GroupEnabled, 0, false)
	} else {
		h.deps.Groups.Disable(ctx, chatID)
		log.InfoContext(ctx, "Disabled group", "chat_id", chatID, "by_user", update.Message.From.ID)
		h.deps.Sender.Send(ctx, chatID, msgs.GroupDisabled, 0, false)
	}
}
