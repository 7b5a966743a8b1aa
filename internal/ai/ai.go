// Package ai provides the language-model boundary: a backend-neutral client
// interface with typed failures, and OpenAI and Gemini implementations.
package ai

import (
	"context"
	"errors"
)

// Role tags a prompt message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged entry of a prompt. System entries come
// first; content is never empty (enforced by the conversation store).
type Message struct {
	Role    Role
	Content string
}

// Typed failure kinds returned by Client implementations. Callers probe
// them with errors.Is; anything that matches none of these is an unknown
// upstream failure.
var (
	ErrRateLimited    = errors.New("model rate limited")
	ErrInvalidRequest = errors.New("model rejected request")
	ErrTimeout        = errors.New("model request timed out")
	ErrEmptyResponse  = errors.New("model returned empty response")
)

// Client generates replies from an ordered prompt.
type Client interface {
	// Generate produces a reply for the given prompt. It returns
	// ErrTimeout when the context deadline is exceeded, ErrRateLimited or
	// ErrInvalidRequest for the corresponding API failures, and
	// ErrEmptyResponse when the backend produced no usable text.
	Generate(ctx context.Context, prompt []Message) (string, error)
}
