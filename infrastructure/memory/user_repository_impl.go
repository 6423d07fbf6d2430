package memory

import (
	"context"

	"group-task-organizer/domain/models"
	"group-task-organizer/domain/repositories"
)

type UserRepositoryImpl struct {
	store *Store
}

func NewUserRepository(store *Store) repositories.UserRepository {
	return &UserRepositoryImpl{store: store}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	return r.store.createUser(ctx, user)
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.store.getUser(ctx, id)
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.store.getUserByEmail(ctx, email)
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]*models.User, error) {
	return r.store.listUsers(ctx)
}

func (r *UserRepositoryImpl) Update(ctx context.Context, id int64, mutate func(*models.User) error) (*models.User, error) {
	return r.store.updateUser(ctx, id, mutate)
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id int64) (int64, error) {
	return r.store.deleteUser(ctx, id)
}

func (r *UserRepositoryImpl) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	users, _ := r.store.counts()
	return users, nil
}
