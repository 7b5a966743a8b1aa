package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// GroupAdminOnly creates a middleware that only lets chat administrators
// through in group chats. The admin predicate itself is the transport's;
// this middleware just consumes it.
func GroupAdminOnly(deps *Deps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				return
			}

			chatID := update.Message.Chat.ID
			userID := update.Message.From.ID

			// Private chats have no administrators; the command applies
			// to groups only, but letting it through keeps the reply
			// text honest instead of silently dropping.
			if update.Message.Chat.Type != models.ChatTypePrivate && !deps.IsChatAdmin(ctx, chatID, userID) {
				log := deps.Logger.With("middleware", "group_admin_only")
				log.WarnContext(ctx, "Non-admin attempted admin command", "user_id", userID, "chat_id", chatID)
				deps.Sender.Send(ctx, chatID, deps.Config.Telegram.Messages.AdminsOnly, update.Message.ID, false)
				return
			}

			next(ctx, b, update)
		}
	}
}
