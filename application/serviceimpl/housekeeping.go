package serviceimpl

import (
	"context"

	"group-task-organizer/domain/repositories"
	"group-task-organizer/pkg/logger"
)

// ExpiringStore is implemented by idempotency backends that need manual purging.
type ExpiringStore interface {
	PurgeExpired() int
}

// Housekeeping holds the periodic jobs run by the scheduler.
type Housekeeping struct {
	userRepo repositories.UserRepository
	taskRepo repositories.TaskRepository
	expiring ExpiringStore
}

func NewHousekeeping(userRepo repositories.UserRepository, taskRepo repositories.TaskRepository, expiring ExpiringStore) *Housekeeping {
	return &Housekeeping{
		userRepo: userRepo,
		taskRepo: taskRepo,
		expiring: expiring,
	}
}

// PurgeIdempotencyKeys returns how many expired keys were dropped.
func (h *Housekeeping) PurgeIdempotencyKeys(ctx context.Context) int {
	if h.expiring == nil {
		return 0
	}
	removed := h.expiring.PurgeExpired()
	if removed > 0 {
		logger.InfoContext(ctx, "Expired idempotency keys purged", "removed", removed)
	}
	return removed
}

// ReportStoreStats logs the current record counts.
func (h *Housekeeping) ReportStoreStats(ctx context.Context) (users, tasks int64, err error) {
	users, err = h.userRepo.Count(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Failed to count users", "error", err)
		return 0, 0, err
	}
	tasks, err = h.taskRepo.Count(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Failed to count tasks", "error", err)
		return 0, 0, err
	}

	logger.InfoContext(ctx, "Store stats", "users", users, "tasks", tasks)
	return users, tasks, nil
}
