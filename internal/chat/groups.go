package chat

import (
	"context"
	"log/slog"
	"sync"
)

// GroupStore is the persistence boundary for group activation flags.
type GroupStore interface {
	SetGroupEnabled(ctx context.Context, chatID int64, enabled bool) error
	ListEnabledGroups(ctx context.Context) ([]int64, error)
}

// GroupRegistry gates the bot's participation in group chats. Unknown
// chats are disabled. Writes go through to the store; a store failure
// degrades the registry to in-memory operation with a logged warning.
type GroupRegistry struct {
	mu      sync.RWMutex
	enabled map[int64]bool

	store GroupStore
	log   *slog.Logger
}

// NewGroupRegistry creates an empty registry. Call Seed before serving
// traffic so flags survive a process restart.
func NewGroupRegistry(store GroupStore, log *slog.Logger) *GroupRegistry {
	return &GroupRegistry{
		enabled: make(map[int64]bool),
		store:   store,
		log:     log.With("component", "group_registry"),
	}
}

// Seed loads the enabled-group set from the store. A load failure leaves
// the registry empty (all groups disabled) and is reported to the caller
// for logging; the registry remains usable.
func (g *GroupRegistry) Seed(ctx context.Context) error {
	if g.store == nil {
		return nil
	}
	ids, err := g.store.ListEnabledGroups(ctx)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range ids {
		g.enabled[id] = true
	}
	g.log.Info("Seeded group registry", "enabled_groups", len(ids))
	return nil
}

// Enabled reports whether the bot may respond in the given group chat.
func (g *GroupRegistry) Enabled(chatID int64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled[chatID]
}

// Enable activates the bot in a group chat.
func (g *GroupRegistry) Enable(ctx context.Context, chatID int64) {
	g.set(ctx, chatID, true)
}

// Disable deactivates the bot in a group chat.
func (g *GroupRegistry) Disable(ctx context.Context, chatID int64) {
	g.set(ctx, chatID, false)
}

func (g *GroupRegistry) set(ctx context.Context, chatID int64, enabled bool) {
	g.mu.Lock()
	g.enabled[chatID] = enabled
	g.mu.Unlock()

	if g.store == nil {
		return
	}
	if err := g.store.SetGroupEnabled(ctx, chatID, enabled); err != nil {
		g.log.WarnContext(ctx, "Failed to persist group flag, keeping in-memory state",
			"chat_id", chatID, "enabled", enabled, "error", err)
	}
}
