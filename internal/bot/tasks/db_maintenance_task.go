package tasks

import (
	"context"
	"fmt"
	"time"
)

const maintenanceTimeout = 5 * time.Minute

// newDBMaintenanceTask creates the periodic database maintenance task.
func newDBMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "db_maintenance")

	return func(ctx context.Context) error {
		runCtx, cancel := context.WithTimeout(ctx, maintenanceTimeout)
		defer cancel()

		if err := deps.Store.RunMaintenance(runCtx); err != nil {
			return fmt.Errorf("database maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Database maintenance completed")
		return nil
	}
}
