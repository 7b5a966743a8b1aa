package chat

import (
	"strings"
)

// DecisionKind classifies what should happen with an incoming message.
type DecisionKind int

const (
	// DecisionIgnore drops the message without any visible reaction.
	DecisionIgnore DecisionKind = iota
	// DecisionRespond forwards Decision.Text through the model pipeline.
	DecisionRespond
	// DecisionCanned sends Decision.Text verbatim, without a model call.
	DecisionCanned
	// DecisionNotify sends a short user-visible notice identified by
	// Decision.Notice, distinguishing "nothing actionable" from a silent
	// decline.
	DecisionNotify
)

// NoticeKind identifies the user-visible notice of a DecisionNotify.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	// NoticeEmptyInput: the user addressed the bot but no text could be
	// derived from the message.
	NoticeEmptyInput
	// NoticeReplyUnreadable: the user pointed the bot at a quoted message
	// that carries no readable text.
	NoticeReplyUnreadable
)

// Decision is the resolver's verdict for one incoming message.
type Decision struct {
	Kind    DecisionKind
	Text    string
	ReplyTo int
	Notice  NoticeKind
}

// Policy holds the behavioral knobs that varied across bot revisions.
type Policy struct {
	// SpontaneousOdds N gives unaddressed group messages a 1-in-N chance
	// of a reaction; 0 disables spontaneous replies.
	SpontaneousOdds int
	// CannedReplies, when non-empty, are used for spontaneous reactions
	// instead of a model call.
	CannedReplies []string
	// MentionPrefersReply controls the mention-plus-reply tie-break: true
	// answers about the quoted message, false answers the mention text.
	MentionPrefersReply bool
}

// Resolver decides whether and with what text the bot responds to a
// message. The RNG is injected so spontaneous behavior is deterministic
// under test.
type Resolver struct {
	botID  int64
	handle string
	policy Policy
	groups *GroupRegistry
	intn   func(n int) int
}

// NewResolver creates a Resolver for the bot identified by botID and
// username (without the leading @). intn must return a uniform value in
// [0, n); it is only consulted when the policy enables spontaneous replies.
func NewResolver(botID int64, username string, policy Policy, groups *GroupRegistry, intn func(n int) int) *Resolver {
	return &Resolver{
		botID:  botID,
		handle: username,
		policy: policy,
		groups: groups,
		intn:   intn,
	}
}

// Resolve evaluates the decision cascade. Rules are ordered so explicit
// addressing dominates ambient chatter, and a disabled group short-circuits
// before any text inspection.
func (r *Resolver) Resolve(msg *IncomingMessage) Decision {
	text, hasText := msg.Content.Usable()

	if msg.Kind == ChatPrivate {
		if !hasText {
			return Decision{Kind: DecisionNotify, Notice: NoticeEmptyInput, ReplyTo: msg.MessageID}
		}
		return Decision{Kind: DecisionRespond, Text: text, ReplyTo: msg.MessageID}
	}

	if !r.groups.Enabled(msg.ChatID) {
		return Decision{Kind: DecisionIgnore}
	}

	if msg.Forwarded {
		if !hasText {
			return Decision{Kind: DecisionIgnore}
		}
		return Decision{Kind: DecisionRespond, Text: text, ReplyTo: msg.MessageID}
	}

	if msg.MentionsBot {
		return r.resolveMention(msg, text)
	}

	if msg.Reply != nil && msg.Reply.AuthorID == r.botID {
		if !hasText {
			return Decision{Kind: DecisionNotify, Notice: NoticeEmptyInput, ReplyTo: msg.MessageID}
		}
		return Decision{Kind: DecisionRespond, Text: text, ReplyTo: msg.MessageID}
	}

	if r.policy.SpontaneousOdds > 0 && hasText && r.intn != nil && r.intn(r.policy.SpontaneousOdds) == 0 {
		if n := len(r.policy.CannedReplies); n > 0 {
			return Decision{
				Kind:    DecisionCanned,
				Text:    r.policy.CannedReplies[r.intn(n)],
				ReplyTo: msg.MessageID,
			}
		}
		return Decision{Kind: DecisionRespond, Text: text, ReplyTo: msg.MessageID}
	}

	return Decision{Kind: DecisionIgnore}
}

// resolveMention handles the two addressed cases: a bare mention answers
// the mention text with the handle stripped; a mention on a reply answers
// about the quoted message (the mention is just a pointer at it). Which of
// the two wins when both apply is a policy knob.
func (r *Resolver) resolveMention(msg *IncomingMessage, text string) Decision {
	mentionText := r.stripMention(text)

	if msg.Reply != nil {
		replyText, replyReadable := msg.Reply.Content.Usable()

		if r.policy.MentionPrefersReply {
			if replyReadable {
				return Decision{Kind: DecisionRespond, Text: replyText, ReplyTo: msg.MessageID}
			}
			return Decision{Kind: DecisionNotify, Notice: NoticeReplyUnreadable, ReplyTo: msg.MessageID}
		}

		if mentionText != "" {
			return Decision{Kind: DecisionRespond, Text: mentionText, ReplyTo: msg.MessageID}
		}
		if replyReadable {
			return Decision{Kind: DecisionRespond, Text: replyText, ReplyTo: msg.MessageID}
		}
		return Decision{Kind: DecisionNotify, Notice: NoticeReplyUnreadable, ReplyTo: msg.MessageID}
	}

	if mentionText == "" {
		return Decision{Kind: DecisionNotify, Notice: NoticeEmptyInput, ReplyTo: msg.MessageID}
	}
	return Decision{Kind: DecisionRespond, Text: mentionText, ReplyTo: msg.MessageID}
}

// stripMention removes every case-insensitive occurrence of @handle and
// trims the remainder.
func (r *Resolver) stripMention(text string) string {
	if r.handle == "" {
		return strings.TrimSpace(text)
	}

	mention := strings.ToLower("@" + r.handle)
	lower := strings.ToLower(text)

	var b strings.Builder
	for i := 0; i < len(text); {
		if strings.HasPrefix(lower[i:], mention) {
			i += len(mention)
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return strings.TrimSpace(b.String())
}
