package memory

import (
	"context"

	"group-task-organizer/domain/models"
	"group-task-organizer/domain/repositories"
)

type TaskRepositoryImpl struct {
	store *Store
}

func NewTaskRepository(store *Store) repositories.TaskRepository {
	return &TaskRepositoryImpl{store: store}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.store.createTask(ctx, task)
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return r.store.getTask(ctx, id)
}

func (r *TaskRepositoryImpl) ListByUserID(ctx context.Context, userID int64) ([]*models.Task, error) {
	return r.store.listTasksByUser(ctx, userID)
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, id int64, mutate func(*models.Task) error) (*models.Task, error) {
	return r.store.updateTask(ctx, id, mutate)
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.store.deleteTask(ctx, id)
}

func (r *TaskRepositoryImpl) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	_, tasks := r.store.counts()
	return tasks, nil
}
