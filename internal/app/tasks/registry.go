package tasks

import (
	"context"

	"github.com/edgard/bfhl/internal/config"
)

// ScheduledTaskFunc defines the standard signature for all scheduled tasks.
// The context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the scheduled tasks keyed by the name used in the
// scheduler.tasks configuration section. Without a store there is nothing to
// maintain and the map is empty.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)
	if deps.Store == nil {
		deps.Logger.Info("Audit store disabled, no scheduled tasks registered")
		return tasks
	}

	tasks[config.TaskAuditRetention] = newAuditRetentionTask(deps)
	tasks[config.TaskSQLMaintenance] = newSQLMaintenanceTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
