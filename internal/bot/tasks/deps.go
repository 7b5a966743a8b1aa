// Package tasks implements the bot's scheduled background tasks.
package tasks

import (
	"log/slog"

	"github.com/ashorokhov/boltun/internal/database"
)

// TaskDeps contains the dependencies available to scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
}
