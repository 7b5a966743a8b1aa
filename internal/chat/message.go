// Package chat implements the message-intent resolution engine and its
// state managers: the per-user conversation context store, the request-rate
// limiter, and the group activation registry.
package chat

import "strings"

// ChatKind distinguishes private conversations from group chats.
type ChatKind int

const (
	ChatPrivate ChatKind = iota
	ChatGroup
)

// ContentKind tags the payload variant of a message.
type ContentKind int

const (
	ContentEmpty ContentKind = iota
	ContentText
	ContentCaption
)

// MessageContent is the tagged content of a message: plain text, a media
// caption, or nothing.
type MessageContent struct {
	Kind  ContentKind
	Value string
}

// TextContent wraps plain message text.
func TextContent(s string) MessageContent {
	return MessageContent{Kind: ContentText, Value: s}
}

// CaptionContent wraps a media caption.
func CaptionContent(s string) MessageContent {
	return MessageContent{Kind: ContentCaption, Value: s}
}

// EmptyContent marks a message without usable text.
func EmptyContent() MessageContent {
	return MessageContent{Kind: ContentEmpty}
}

// Usable returns the trimmed content and whether it is non-empty.
func (c MessageContent) Usable() (string, bool) {
	if c.Kind == ContentEmpty {
		return "", false
	}
	trimmed := strings.TrimSpace(c.Value)
	return trimmed, trimmed != ""
}

// ReplyTarget references the message being replied to. Resolution is one
// level deep: a reply to a reply is not followed further.
type ReplyTarget struct {
	MessageID int
	AuthorID  int64
	Content   MessageContent
}

// IncomingMessage is the transport-independent view of a received message.
type IncomingMessage struct {
	ChatID    int64
	UserID    int64
	MessageID int
	Kind      ChatKind
	Content   MessageContent
	Forwarded bool
	// MentionsBot is computed by the transport from message entities.
	MentionsBot bool
	Reply       *ReplyTarget
}
