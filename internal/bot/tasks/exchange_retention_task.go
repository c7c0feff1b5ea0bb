package tasks

import (
	"context"
	"fmt"
	"time"
)

const defaultRetentionDays = 30

// newExchangeRetentionTask deletes journal rows older than the retention window.
func newExchangeRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "exchange_retention")

	days := deps.RetentionDays
	if days <= 0 {
		days = defaultRetentionDays
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return func(ctx context.Context) error {
		cutoff := now().UTC().AddDate(0, 0, -days)

		deleted, err := deps.Store.DeleteExchangesBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Exchange retention task failed", "error", err, "cutoff", cutoff)
			return fmt.Errorf("exchange retention failed: %w", err)
		}

		remaining, err := deps.Store.CountExchanges(ctx)
		if err != nil {
			log.WarnContext(ctx, "Failed to count remaining exchanges", "error", err)
		}

		log.InfoContext(ctx, "Exchange retention completed", "deleted", deleted, "remaining", remaining, "retention_days", days)
		return nil
	}
}
