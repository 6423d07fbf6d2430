package repositories

import (
	"context"

	"group-task-organizer/domain/models"
)

type TaskRepository interface {
	// Create assigns task.ID. Fails with ErrOwnerMissing when task.UserID does not resolve.
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	// ListByUserID returns the user's tasks in creation order, or ErrOwnerMissing.
	ListByUserID(ctx context.Context, userID int64) ([]*models.Task, error)
	// Update applies mutate under the record lock. ID and UserID are kept.
	Update(ctx context.Context, id int64, mutate func(*models.Task) error) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
