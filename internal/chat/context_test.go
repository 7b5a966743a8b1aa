package chat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashorokhov/boltun/internal/ai"
)

func newTestContextStore(store PersonalityStore) *ContextStore {
	return NewContextStore(store, "default personality", "", 10, testLogger())
}

func TestContextStoreAppendAndBuildPrompt(t *testing.T) {
	t.Parallel()
	s := newTestContextStore(newFakePersonalityStore())

	require.NoError(t, s.AppendUserTurn(1, "hello"))
	require.NoError(t, s.AppendAssistantTurn(1, "hi there"))

	prompt := s.BuildPrompt(t.Context(), 1)
	require.Len(t, prompt, 3)
	assert.Equal(t, ai.Message{Role: ai.RoleSystem, Content: "default personality"}, prompt[0])
	assert.Equal(t, ai.Message{Role: ai.RoleUser, Content: "hello"}, prompt[1])
	assert.Equal(t, ai.Message{Role: ai.RoleAssistant, Content: "hi there"}, prompt[2])
}

func TestContextStoreFormatInstruction(t *testing.T) {
	t.Parallel()
	s := NewContextStore(nil, "persona", "answer in plain text", 10, testLogger())
	require.NoError(t, s.AppendUserTurn(1, "hello"))

	prompt := s.BuildPrompt(t.Context(), 1)
	require.Len(t, prompt, 3)
	assert.Equal(t, ai.RoleSystem, prompt[1].Role)
	assert.Equal(t, "answer in plain text", prompt[1].Content)
}

func TestContextStoreEvictsOldestBeyondCap(t *testing.T) {
	t.Parallel()
	s := NewContextStore(nil, "persona", "", 4, testLogger())

	for _, turn := range []string{"a", "b", "c", "d", "e", "f"} {
		require.NoError(t, s.AppendUserTurn(1, turn))
	}

	assert.Equal(t, 4, s.Len(1))
	prompt := s.BuildPrompt(t.Context(), 1)
	require.Len(t, prompt, 5)
	assert.Equal(t, "c", prompt[1].Content, "oldest surviving turn")
	assert.Equal(t, "f", prompt[4].Content, "newest turn")
}

func TestContextStoreRejectsEmptyTurns(t *testing.T) {
	t.Parallel()
	s := newTestContextStore(nil)

	assert.ErrorIs(t, s.AppendUserTurn(1, ""), ErrEmptyContent)
	assert.ErrorIs(t, s.AppendUserTurn(1, "   \n\t"), ErrEmptyContent)
	assert.Equal(t, 0, s.Len(1))
}

func TestContextStoreResetKeepsPersonality(t *testing.T) {
	t.Parallel()
	s := newTestContextStore(newFakePersonalityStore())
	require.NoError(t, s.SetPersonality(t.Context(), 1, "pirate"))
	require.NoError(t, s.AppendUserTurn(1, "hello"))

	s.Reset(1)

	assert.Equal(t, 0, s.Len(1))
	assert.Equal(t, "pirate", s.Personality(t.Context(), 1))
}

func TestContextStoreIsolatesUsers(t *testing.T) {
	t.Parallel()
	s := newTestContextStore(nil)
	require.NoError(t, s.AppendUserTurn(1, "from one"))
	require.NoError(t, s.AppendUserTurn(2, "from two"))

	prompt := s.BuildPrompt(t.Context(), 1)
	require.Len(t, prompt, 2)
	assert.Equal(t, "from one", prompt[1].Content)
}

func TestContextStorePersonalityReadThrough(t *testing.T) {
	t.Parallel()
	store := newFakePersonalityStore()
	store.personalities[1] = "stored persona"
	s := newTestContextStore(store)

	assert.Equal(t, "stored persona", s.Personality(t.Context(), 1))
	assert.Equal(t, "default personality", s.Personality(t.Context(), 2))
}

func TestContextStorePersonalityDegradesOnLoadFailure(t *testing.T) {
	t.Parallel()
	store := newFakePersonalityStore()
	store.getErr = errors.New("db unreachable")
	s := newTestContextStore(store)

	assert.Equal(t, "default personality", s.Personality(t.Context(), 1))
}

func TestContextStoreSetPersonalityWritesThrough(t *testing.T) {
	t.Parallel()
	store := newFakePersonalityStore()
	s := newTestContextStore(store)
	ctx := t.Context()

	require.NoError(t, s.SetPersonality(ctx, 1, "pirate"))
	assert.Equal(t, "pirate", store.personalities[1])
	assert.Equal(t, "pirate", s.Personality(ctx, 1))

	assert.ErrorIs(t, s.SetPersonality(ctx, 1, "  "), ErrEmptyContent)
}

func TestContextStoreSetPersonalitySurvivesStoreFailure(t *testing.T) {
	t.Parallel()
	store := newFakePersonalityStore()
	store.setErr = errors.New("disk full")
	s := newTestContextStore(store)
	ctx := t.Context()

	require.NoError(t, s.SetPersonality(ctx, 1, "pirate"))
	assert.Equal(t, "pirate", s.Personality(ctx, 1), "override kept in memory")
}
