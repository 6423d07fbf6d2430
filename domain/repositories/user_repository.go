package repositories

import (
	"context"

	"group-task-organizer/domain/models"
)

type UserRepository interface {
	// Create assigns user.ID. Fails with ErrDuplicateEmail.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns users in creation order.
	List(ctx context.Context) ([]*models.User, error)
	// Update applies mutate to a copy of the stored user and persists it atomically.
	Update(ctx context.Context, id int64, mutate func(*models.User) error) (*models.User, error)
	// Delete removes the user and every task it owns as one unit and
	// reports how many tasks went with it.
	Delete(ctx context.Context, id int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}
