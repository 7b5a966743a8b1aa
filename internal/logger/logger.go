// Package logger provides structured logging for boltun using log/slog,
// plus a Telegram middleware that logs every processed update.
package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// New creates an slog Logger with the given level. If jsonOutput is true,
// logs are emitted as JSON, otherwise as text.
func New(levelStr string, jsonOutput bool) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// Middleware creates a bot middleware that logs incoming message updates
// and the time spent handling them.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()

			entry := log.With("update_id", update.ID)
			if msg := update.Message; msg != nil {
				var userID int64
				if msg.From != nil {
					userID = msg.From.ID
				}
				entry = entry.With(
					"message_id", msg.ID,
					"chat_id", msg.Chat.ID,
					"user_id", userID,
					"text_preview", truncate(msg.Text, 50),
				)
			}

			entry.DebugContext(ctx, "Processing update")
			next(ctx, b, update)
			entry.DebugContext(ctx, "Finished processing update", "duration", time.Since(start))
		}
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
