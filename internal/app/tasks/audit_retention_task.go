package tasks

import (
	"context"
	"fmt"
	"time"
)

// newAuditRetentionTask deletes audit records older than the configured retention.
func newAuditRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "audit_retention")
	retention := deps.Config.Audit.Retention

	return func(ctx context.Context) error {
		cutoff := time.Now().Add(-retention)

		deleted, err := deps.Store.PruneRequestsBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Audit retention task failed", "cutoff", cutoff, "error", err)
			return fmt.Errorf("audit retention failed: %w", err)
		}

		log.InfoContext(ctx, "Audit retention task completed", "cutoff", cutoff, "deleted", deleted)
		return nil
	}
}
