package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/ashorokhov/boltun/internal/ai"
)

// ErrEmptyContent is returned when a turn or personality would be recorded
// with no content. Empty turns are rejected rather than dropped so that the
// stored sequence never silently diverges from what the model was shown.
var ErrEmptyContent = errors.New("empty content")

// PersonalityStore is the persistence boundary for per-user personality
// overrides.
type PersonalityStore interface {
	GetPersonality(ctx context.Context, userID int64) (string, error)
	SetPersonality(ctx context.Context, userID int64, personality string) error
}

// ContextStore maintains a bounded rolling conversation memory per user and
// assembles the prompt sent to the model. Store failures degrade to
// in-memory operation; they never fail the request path.
type ContextStore struct {
	mu      sync.Mutex
	entries map[int64]*userEntry

	store              PersonalityStore
	defaultPersonality string
	formatInstruction  string
	historySize        int
	log                *slog.Logger
}

type userEntry struct {
	mu                sync.Mutex
	turns             []ai.Message
	personality       string
	personalityLoaded bool
}

// NewContextStore creates a ContextStore. historySize is the turn cap per
// user; formatInstruction, when non-empty, is appended to the system
// preamble of every prompt.
func NewContextStore(store PersonalityStore, defaultPersonality, formatInstruction string, historySize int, log *slog.Logger) *ContextStore {
	return &ContextStore{
		entries:            make(map[int64]*userEntry),
		store:              store,
		defaultPersonality: defaultPersonality,
		formatInstruction:  formatInstruction,
		historySize:        historySize,
		log:                log.With("component", "context_store"),
	}
}

func (s *ContextStore) entry(userID int64) *userEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &userEntry{}
		s.entries[userID] = e
	}
	return e
}

// AppendUserTurn records a user turn, evicting the oldest turn once the cap
// is reached. Content that is empty after trimming is an error.
func (s *ContextStore) AppendUserTurn(userID int64, content string) error {
	return s.append(userID, ai.RoleUser, content)
}

// AppendAssistantTurn records an assistant turn. It must only be called
// after a validated model response.
func (s *ContextStore) AppendAssistantTurn(userID int64, content string) error {
	return s.append(userID, ai.RoleAssistant, content)
}

func (s *ContextStore) append(userID int64, role ai.Role, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}

	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.turns = append(e.turns, ai.Message{Role: role, Content: content})
	if excess := len(e.turns) - s.historySize; excess > 0 {
		e.turns = append([]ai.Message(nil), e.turns[excess:]...)
	}
	return nil
}

// BuildPrompt returns the system preamble followed by the user's stored
// turns. The preamble uses the user's personality override when one exists,
// falling back to the process-wide default.
func (s *ContextStore) BuildPrompt(ctx context.Context, userID int64) []ai.Message {
	personality := s.Personality(ctx, userID)

	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	prompt := make([]ai.Message, 0, len(e.turns)+2)
	prompt = append(prompt, ai.Message{Role: ai.RoleSystem, Content: personality})
	if s.formatInstruction != "" {
		prompt = append(prompt, ai.Message{Role: ai.RoleSystem, Content: s.formatInstruction})
	}
	prompt = append(prompt, e.turns...)
	return prompt
}

// Reset clears the user's stored turns. The personality override survives.
func (s *ContextStore) Reset(userID int64) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.turns = nil
}

// Len reports the number of stored turns for a user.
func (s *ContextStore) Len(userID int64) int {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.turns)
}

// Personality returns the user's effective personality: the in-memory
// override, then the stored one, then the default.
func (s *ContextStore) Personality(ctx context.Context, userID int64) string {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.personalityLoaded {
		e.personalityLoaded = true
		if s.store != nil {
			stored, err := s.store.GetPersonality(ctx, userID)
			if err != nil {
				s.log.WarnContext(ctx, "Failed to load personality, using in-memory state", "user_id", userID, "error", err)
			} else {
				e.personality = stored
			}
		}
	}

	if e.personality == "" {
		return s.defaultPersonality
	}
	return e.personality
}

// SetPersonality sets the user's personality override and writes it
// through to the store. A store failure leaves the in-memory override in
// place and is logged, not returned.
func (s *ContextStore) SetPersonality(ctx context.Context, userID int64, personality string) error {
	personality = strings.TrimSpace(personality)
	if personality == "" {
		return ErrEmptyContent
	}

	e := s.entry(userID)
	e.mu.Lock()
	e.personality = personality
	e.personalityLoaded = true
	e.mu.Unlock()

	if s.store != nil {
		if err := s.store.SetPersonality(ctx, userID, personality); err != nil {
			s.log.WarnContext(ctx, "Failed to persist personality, keeping in-memory override", "user_id", userID, "error", err)
		}
	}
	return nil
}
