package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashorokhov/boltun/internal/ai"
)

type fakeModel struct {
	reply  string
	err    error
	prompt []ai.Message
	calls  int
}

func (f *fakeModel) Generate(_ context.Context, msgs []ai.Message) (string, error) {
	f.calls++
	f.prompt = msgs
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var testNotices = Notices{
	EmptyInput:      "say something",
	ReplyUnreadable: "cannot read that reply",
	RateLimited:     "slow down",
	ModelError:      "model broke",
	ModelTimeout:    "model too slow",
}

func newTestOrchestrator(model ai.Client, limiter *RateLimiter) (*Orchestrator, *ContextStore) {
	contexts := NewContextStore(nil, "persona", "", 10, testLogger())
	if limiter == nil {
		limiter = NewRateLimiter(time.Minute, 100)
	}
	o := NewOrchestrator(contexts, limiter, model, testNotices, time.Minute, 4096, testLogger())
	return o, contexts
}

func testMessage() *IncomingMessage {
	return &IncomingMessage{
		ChatID:    100,
		UserID:    1,
		MessageID: 7,
		Kind:      ChatPrivate,
		Content:   TextContent("hello"),
	}
}

func TestExecuteIgnore(t *testing.T) {
	t.Parallel()
	model := &fakeModel{reply: "never"}
	o, _ := newTestOrchestrator(model, nil)

	out := o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionIgnore})

	assert.False(t, out.Send)
	assert.Zero(t, model.calls)
}

func TestExecuteNotify(t *testing.T) {
	t.Parallel()
	model := &fakeModel{}
	o, _ := newTestOrchestrator(model, nil)

	out := o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionNotify, Notice: NoticeEmptyInput, ReplyTo: 7})
	require.True(t, out.Send)
	assert.Equal(t, "say something", out.Text)
	assert.Equal(t, 7, out.ReplyTo)
	assert.False(t, out.Escape, "notices go out verbatim")

	out = o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionNotify, Notice: NoticeReplyUnreadable})
	assert.Equal(t, "cannot read that reply", out.Text)
	assert.Zero(t, model.calls)
}

func TestExecuteCannedBypassesModelAndMemory(t *testing.T) {
	t.Parallel()
	model := &fakeModel{}
	o, contexts := newTestOrchestrator(model, nil)

	out := o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionCanned, Text: "lol", ReplyTo: 7})

	require.True(t, out.Send)
	assert.Equal(t, "lol", out.Text)
	assert.False(t, out.Escape)
	assert.Zero(t, model.calls)
	assert.Equal(t, 0, contexts.Len(1), "canned replies never touch memory")
}

func TestExecuteRespondSuccess(t *testing.T) {
	t.Parallel()
	model := &fakeModel{reply: "hi there"}
	o, contexts := newTestOrchestrator(model, nil)

	out := o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionRespond, Text: "hello", ReplyTo: 7})

	require.True(t, out.Send)
	assert.Equal(t, "hi there", out.Text)
	assert.Equal(t, 7, out.ReplyTo)
	assert.True(t, out.Escape, "model output needs escaping downstream")

	require.Len(t, model.prompt, 2)
	assert.Equal(t, ai.RoleSystem, model.prompt[0].Role)
	assert.Equal(t, ai.Message{Role: ai.RoleUser, Content: "hello"}, model.prompt[1])

	assert.Equal(t, 2, contexts.Len(1), "user and assistant turns recorded")
}

func TestExecuteRespondClampsLongReplies(t *testing.T) {
	t.Parallel()
	model := &fakeModel{reply: strings.Repeat("word ", 2000)}
	o, contexts := newTestOrchestrator(model, nil)

	out := o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionRespond, Text: "hello"})

	require.True(t, out.Send)
	assert.LessOrEqual(t, len([]rune(out.Text)), 4096)

	// Memory stores the clamped text, not the raw reply.
	prompt := contexts.BuildPrompt(t.Context(), 1)
	assert.Equal(t, out.Text, prompt[len(prompt)-1].Content)
}

func TestExecuteRespondRateLimited(t *testing.T) {
	t.Parallel()
	model := &fakeModel{reply: "never"}
	limiter := NewRateLimiter(time.Minute, 0)
	o, contexts := newTestOrchestrator(model, limiter)

	out := o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionRespond, Text: "hello", ReplyTo: 7})

	require.True(t, out.Send)
	assert.Equal(t, "slow down", out.Text)
	assert.Zero(t, model.calls, "no model call while throttled")
	assert.Equal(t, 0, contexts.Len(1), "rejection leaves no trace in memory")
}

func TestExecuteRespondModelError(t *testing.T) {
	t.Parallel()
	model := &fakeModel{err: ai.ErrInvalidRequest}
	o, contexts := newTestOrchestrator(model, nil)

	out := o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionRespond, Text: "hello", ReplyTo: 7})

	require.True(t, out.Send)
	assert.Equal(t, "model broke", out.Text)
	assert.Equal(t, 1, contexts.Len(1), "user turn kept, no assistant turn recorded")
}

func TestExecuteRespondModelTimeout(t *testing.T) {
	t.Parallel()
	model := &fakeModel{err: ai.ErrTimeout}
	o, _ := newTestOrchestrator(model, nil)

	out := o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionRespond, Text: "hello"})

	require.True(t, out.Send)
	assert.Equal(t, "model too slow", out.Text)
}

func TestExecuteRespondAbandonedOnCancel(t *testing.T) {
	t.Parallel()
	model := &fakeModel{err: context.Canceled}
	o, _ := newTestOrchestrator(model, nil)

	out := o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionRespond, Text: "hello"})

	assert.False(t, out.Send, "cancelled work sends nothing")
}

func TestExecuteRespondEmptyDerivedText(t *testing.T) {
	t.Parallel()
	model := &fakeModel{reply: "never"}
	o, _ := newTestOrchestrator(model, nil)

	out := o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionRespond, Text: "   "})

	require.True(t, out.Send)
	assert.Equal(t, "say something", out.Text)
	assert.Zero(t, model.calls)
}

func TestExecuteRespondUnwrapsErrors(t *testing.T) {
	t.Parallel()
	model := &fakeModel{err: errors.Join(errors.New("call failed"), ai.ErrTimeout)}
	o, _ := newTestOrchestrator(model, nil)

	out := o.Execute(t.Context(), testMessage(), Decision{Kind: DecisionRespond, Text: "hello"})

	require.True(t, out.Send)
	assert.Equal(t, "model too slow", out.Text)
}
