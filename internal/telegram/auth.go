package telegram

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const adminCheckTimeout = 5 * time.Second

// IsChatAdmin reports whether the user administers the given chat. Lookup
// failures deny by default.
func IsChatAdmin(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID, userID int64) bool {
	checkCtx, cancel := context.WithTimeout(ctx, adminCheckTimeout)
	defer cancel()

	member, err := b.GetChatMember(checkCtx, &bot.GetChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil {
		log.WarnContext(ctx, "Failed to check chat membership, denying", "error", err, "chat_id", chatID, "user_id", userID)
		return false
	}

	switch member.Type {
	case models.ChatMemberTypeOwner, models.ChatMemberTypeAdministrator:
		return true
	default:
		return false
	}
}
