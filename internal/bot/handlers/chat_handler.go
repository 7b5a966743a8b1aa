package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ashorokhov/boltun/internal/chat"
)

// NewChatHandler returns the default handler: every non-command message
// goes through the intent engine, and the outcome (if any) is sent back.
func NewChatHandler(deps *Deps) bot.HandlerFunc {
	return chatHandler{deps}.Handle
}

type chatHandler struct {
	deps *Deps
}

func (h chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "chat")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if isCommand(msg) {
		// Unmatched commands are not conversation input.
		return
	}
	if msg.Text == "" && msg.Caption == "" {
		// Non-text payloads are never processed.
		log.DebugContext(ctx, "Ignoring non-text message", "chat_id", msg.Chat.ID)
		return
	}

	in := h.incoming(msg)
	decision := deps.Resolver.Resolve(in)
	if decision.Kind == chat.DecisionIgnore {
		log.DebugContext(ctx, "Ignoring message", "chat_id", in.ChatID, "message_id", in.MessageID)
		return
	}

	if decision.Kind == chat.DecisionRespond {
		if _, err := b.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: in.ChatID,
			Action: models.ChatActionTyping,
		}); err != nil {
			log.DebugContext(ctx, "Failed to send typing action", "error", err)
		}
	}

	outcome := deps.Orchestrator.Execute(ctx, in, decision)
	if !outcome.Send {
		return
	}
	deps.Sender.Send(ctx, in.ChatID, outcome.Text, outcome.ReplyTo, outcome.Escape)
}

// incoming converts a Telegram message into the engine's transport-neutral
// form, resolving the reply target one level deep.
func (h chatHandler) incoming(msg *models.Message) *chat.IncomingMessage {
	kind := chat.ChatGroup
	if msg.Chat.Type == models.ChatTypePrivate {
		kind = chat.ChatPrivate
	}

	in := &chat.IncomingMessage{
		ChatID:      msg.Chat.ID,
		UserID:      msg.From.ID,
		MessageID:   msg.ID,
		Kind:        kind,
		Content:     messageContent(msg.Text, msg.Caption),
		Forwarded:   msg.ForwardOrigin != nil,
		MentionsBot: h.mentionsBot(msg),
	}

	if reply := msg.ReplyToMessage; reply != nil {
		target := &chat.ReplyTarget{
			MessageID: reply.ID,
			Content:   messageContent(reply.Text, reply.Caption),
		}
		if reply.From != nil {
			target.AuthorID = reply.From.ID
		}
		in.Reply = target
	}

	return in
}

func messageContent(text, caption string) chat.MessageContent {
	switch {
	case text != "":
		return chat.TextContent(text)
	case caption != "":
		return chat.CaptionContent(caption)
	default:
		return chat.EmptyContent()
	}
}

// mentionsBot scans message entities for a mention of the bot's handle,
// falling back to a case-insensitive substring check.
func (h chatHandler) mentionsBot(msg *models.Message) bool {
	username := h.deps.BotUsername
	if username == "" {
		return false
	}

	text := strings.ToLower(msg.Text + " " + msg.Caption)
	mention := "@" + strings.ToLower(username)

	for _, e := range append(msg.Entities, msg.CaptionEntities...) {
		if e.Type != models.MessageEntityTypeMention {
			continue
		}
		if e.Offset >= 0 && e.Length > 0 && e.Offset+e.Length <= len(text) {
			if text[e.Offset:e.Offset+e.Length] == mention {
				return true
			}
		}
	}

	return strings.Contains(text, mention)
}

func isCommand(msg *models.Message) bool {
	for _, e := range append(msg.Entities, msg.CaptionEntities...) {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			return true
		}
	}
	return false
}
