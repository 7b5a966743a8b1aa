package chat

import (
	"context"
	"io"
	"log/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePersonalityStore is an in-memory PersonalityStore whose failure mode
// can be toggled.
type fakePersonalityStore struct {
	personalities map[int64]string
	getErr        error
	setErr        error
	setCalls      int
}

func newFakePersonalityStore() *fakePersonalityStore {
	return &fakePersonalityStore{personalities: make(map[int64]string)}
}

func (f *fakePersonalityStore) GetPersonality(_ context.Context, userID int64) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.personalities[userID], nil
}

func (f *fakePersonalityStore) SetPersonality(_ context.Context, userID int64, p string) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.personalities[userID] = p
	return nil
}

// fakeGroupStore is an in-memory GroupStore whose failure mode can be
// toggled.
type fakeGroupStore struct {
	enabled  map[int64]bool
	setErr   error
	listErr  error
	setCalls int
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{enabled: make(map[int64]bool)}
}

func (f *fakeGroupStore) SetGroupEnabled(_ context.Context, chatID int64, enabled bool) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.enabled[chatID] = enabled
	return nil
}

func (f *fakeGroupStore) ListEnabledGroups(_ context.Context) ([]int64, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var ids []int64
	for id, on := range f.enabled {
		if on {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
