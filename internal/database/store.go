package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the persistence operations the bot depends on: per-user
// personality overrides and per-chat activation flags.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetPersonality returns the personality override for a user, or ""
	// when the user has none.
	GetPersonality(ctx context.Context, userID int64) (string, error)

	// SetPersonality inserts or updates a user's personality override.
	SetPersonality(ctx context.Context, userID int64, personality string) error

	// GetGroupEnabled reports whether a group chat is enabled. Unknown
	// chats are disabled.
	GetGroupEnabled(ctx context.Context, chatID int64) (bool, error)

	// SetGroupEnabled inserts or updates a group chat's activation flag.
	SetGroupEnabled(ctx context.Context, chatID int64, enabled bool) error

	// ListEnabledGroups returns the IDs of all enabled group chats, used
	// to seed the in-memory registry at startup.
	ListEnabledGroups(ctx context.Context) ([]int64, error)

	// RunMaintenance performs periodic database maintenance (VACUUM).
	RunMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given sqlx connection.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetPersonality(ctx context.Context, userID int64) (string, error) {
	var p Personality
	err := s.db.GetContext(ctx, &p,
		`SELECT user_id, personality, updated_at FROM user_personalities WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get personality for user %d: %w", userID, err)
	}
	return p.Personality, nil
}

func (s *sqlxStore) SetPersonality(ctx context.Context, userID int64, personality string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_personalities (user_id, personality, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET personality = excluded.personality, updated_at = excluded.updated_at`,
		userID, personality, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save personality for user %d: %w", userID, err)
	}
	s.logger.DebugContext(ctx, "Saved personality override", "user_id", userID)
	return nil
}

func (s *sqlxStore) GetGroupEnabled(ctx context.Context, chatID int64) (bool, error) {
	var g GroupSetting
	err := s.db.GetContext(ctx, &g,
		`SELECT chat_id, enabled, updated_at FROM group_settings WHERE chat_id = ?`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get group setting for chat %d: %w", chatID, err)
	}
	return g.Enabled, nil
}

func (s *sqlxStore) SetGroupEnabled(ctx context.Context, chatID int64, enabled bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_settings (chat_id, enabled, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET enabled = excluded.enabled, updated_at = excluded.updated_at`,
		chatID, enabled, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save group setting for chat %d: %w", chatID, err)
	}
	s.logger.DebugContext(ctx, "Saved group setting", "chat_id", chatID, "enabled", enabled)
	return nil
}

func (s *sqlxStore) ListEnabledGroups(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids,
		`SELECT chat_id FROM group_settings WHERE enabled = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled groups: %w", err)
	}
	return ids, nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	start := time.Now()
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum failed: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `PRAGMA optimize`); err != nil {
		return fmt.Errorf("pragma optimize failed: %w", err)
	}
	s.logger.InfoContext(ctx, "Database maintenance completed", "duration", time.Since(start))
	return nil
}
