package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask compacts the audit database. The retained record
// count is logged so each run shows what the retention task left behind.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		records, err := deps.Store.CountRequests(ctx)
		if err != nil {
			return fmt.Errorf("failed to count audit records: %w", err)
		}

		start := time.Now()
		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "Audit database maintenance failed", "records", records, "error", err)
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Audit database compacted", "records", records, "duration", time.Since(start))
		return nil
	}
}
