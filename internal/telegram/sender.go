package telegram

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const sendTimeout = 10 * time.Second

// Sender delivers outbound messages. Formatted sends that the API rejects
// are retried once as plain text; a second failure is logged and dropped.
type Sender struct {
	b   *bot.Bot
	log *slog.Logger
}

// NewSender creates a Sender.
func NewSender(b *bot.Bot, log *slog.Logger) *Sender {
	return &Sender{b: b, log: log.With("component", "sender")}
}

// Send delivers text to a chat, optionally as a reply. When escape is true
// the text is escaped and sent as MarkdownV2.
func (s *Sender) Send(ctx context.Context, chatID int64, text string, replyTo int, escape bool) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if replyTo > 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: replyTo}
	}
	if escape {
		params.Text = bot.EscapeMarkdown(text)
		params.ParseMode = models.ParseModeMarkdown
	}

	_, err := s.b.SendMessage(sendCtx, params)
	if err == nil {
		s.log.DebugContext(ctx, "Sent message", "chat_id", chatID, "escaped", escape)
		return
	}

	if !escape {
		s.log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
		return
	}

	s.log.WarnContext(ctx, "Formatted send rejected, retrying as plain text", "error", err, "chat_id", chatID)
	params.Text = text
	params.ParseMode = ""
	if _, err := s.b.SendMessage(sendCtx, params); err != nil {
		s.log.ErrorContext(ctx, "Plain-text fallback failed, dropping message", "error", err, "chat_id", chatID)
	}
}
