package tasks

import "context"

// ScheduledTaskFunc is the signature of all scheduled tasks. The context
// should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the map of available tasks, keyed by the names
// used in the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		"db_maintenance": newDBMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
