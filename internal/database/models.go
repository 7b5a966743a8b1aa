package database

import "time"

// Personality represents a per-user system-instruction override. Users
// without a row fall back to the configured default personality.
type Personality struct {
	UserID      int64     `db:"user_id"`
	Personality string    `db:"personality"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// GroupSetting represents the activation flag of a group chat. Groups
// without a row are treated as disabled.
type GroupSetting struct {
	ChatID    int64     `db:"chat_id"`
	Enabled   bool      `db:"enabled"`
	UpdatedAt time.Time `db:"updated_at"`
}
