// Package tasks implements the scheduled maintenance tasks of the service.
package tasks

import (
	"log/slog"

	"github.com/edgard/bfhl/internal/config"
	"github.com/edgard/bfhl/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
