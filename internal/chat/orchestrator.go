package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ashorokhov/boltun/internal/ai"
	"github.com/ashorokhov/boltun/internal/text"
)

// Notices are the user-visible texts the orchestrator falls back to when
// the pipeline cannot produce a model reply.
type Notices struct {
	EmptyInput      string
	ReplyUnreadable string
	RateLimited     string
	ModelError      string
	ModelTimeout    string
}

// Outcome is what the transport should do after the pipeline ran.
type Outcome struct {
	Send    bool
	Text    string
	ReplyTo int
	// Escape marks model-generated text that needs MarkdownV2 escaping;
	// notices and canned replies are sent as-is.
	Escape bool
}

var ignored = Outcome{}

// Orchestrator sequences a Respond decision through admission control,
// conversation memory, the model call, and output post-processing.
type Orchestrator struct {
	contexts *ContextStore
	limiter  *RateLimiter
	model    ai.Client
	notices  Notices

	modelTimeout time.Duration
	maxLength    int

	log *slog.Logger
}

// NewOrchestrator creates an Orchestrator. maxLength is the outbound
// payload budget after escaping margin has already been subtracted.
func NewOrchestrator(contexts *ContextStore, limiter *RateLimiter, model ai.Client, notices Notices, modelTimeout time.Duration, maxLength int, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		contexts:     contexts,
		limiter:      limiter,
		model:        model,
		notices:      notices,
		modelTimeout: modelTimeout,
		maxLength:    maxLength,
		log:          log.With("component", "orchestrator"),
	}
}

// Execute carries out a resolver decision and returns what to send.
func (o *Orchestrator) Execute(ctx context.Context, msg *IncomingMessage, d Decision) Outcome {
	switch d.Kind {
	case DecisionIgnore:
		return ignored
	case DecisionNotify:
		return Outcome{Send: true, Text: o.noticeText(d.Notice), ReplyTo: d.ReplyTo}
	case DecisionCanned:
		// Canned reactions bypass the model and conversation memory.
		return Outcome{Send: true, Text: d.Text, ReplyTo: d.ReplyTo}
	case DecisionRespond:
		return o.respond(ctx, msg, d)
	default:
		return ignored
	}
}

func (o *Orchestrator) respond(ctx context.Context, msg *IncomingMessage, d Decision) Outcome {
	log := o.log.With("chat_id", msg.ChatID, "user_id", msg.UserID)

	// Admission runs before any state mutation so a rejected request
	// leaves no trace in conversation memory.
	if !o.limiter.TryAdmit(msg.UserID, time.Now()) {
		log.InfoContext(ctx, "Request rejected by rate limiter")
		return Outcome{Send: true, Text: o.notices.RateLimited, ReplyTo: d.ReplyTo}
	}

	if err := o.contexts.AppendUserTurn(msg.UserID, d.Text); err != nil {
		log.WarnContext(ctx, "Refusing to process empty derived text", "error", err)
		return Outcome{Send: true, Text: o.notices.EmptyInput, ReplyTo: d.ReplyTo}
	}

	prompt := o.contexts.BuildPrompt(ctx, msg.UserID)

	// The model call is the only long operation in the pipeline. No
	// per-user lock is held across it.
	callCtx, cancel := context.WithTimeout(ctx, o.modelTimeout)
	defer cancel()

	reply, err := o.model.Generate(callCtx, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Task abandoned (shutdown). No partial state, nothing sent.
			log.InfoContext(ctx, "Model call abandoned", "error", err)
			return ignored
		}
		if errors.Is(err, ai.ErrTimeout) {
			log.ErrorContext(ctx, "Model call timed out", "timeout", o.modelTimeout)
			return Outcome{Send: true, Text: o.notices.ModelTimeout, ReplyTo: d.ReplyTo}
		}
		log.ErrorContext(ctx, "Model call failed", "error", err)
		return Outcome{Send: true, Text: o.notices.ModelError, ReplyTo: d.ReplyTo}
	}

	clamped := text.Clamp(reply, o.maxLength)

	// Memory reflects only successful exchanges, and stores what was
	// actually sent.
	if err := o.contexts.AppendAssistantTurn(msg.UserID, clamped); err != nil {
		log.ErrorContext(ctx, "Failed to record assistant turn", "error", err)
	}

	return Outcome{Send: true, Text: clamped, ReplyTo: d.ReplyTo, Escape: true}
}

func (o *Orchestrator) noticeText(n NoticeKind) string {
	switch n {
	case NoticeEmptyInput:
		return o.notices.EmptyInput
	case NoticeReplyUnreadable:
		return o.notices.ReplyUnreadable
	default:
		return o.notices.EmptyInput
	}
}
