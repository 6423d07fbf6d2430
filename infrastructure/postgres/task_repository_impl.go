package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"group-task-organizer/domain/models"
	"group-task-organizer/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

// lockOwner takes a share lock on the owning user row so a concurrent
// cascade delete waits until this transaction finishes.
func lockOwner(tx *gorm.DB, userID int64) error {
	var owner models.User
	err := tx.Clauses(clause.Locking{Strength: "SHARE"}).Select("id").Where("id = ?", userID).Take(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrOwnerMissing
	}
	return err
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwner(tx, task.UserID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(task).Error
	})
	return translateError(err)
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&task).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) ListByUserID(ctx context.Context, userID int64) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwner(tx, userID); err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Order("id ASC").Find(&tasks).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, id int64, mutate func(*models.Task) error) (*models.Task, error) {
	var updated models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&current).Error; err != nil {
			return err
		}

		next := current
		if err := mutate(&next); err != nil {
			return err
		}
		next.ID = current.ID
		next.UserID = current.UserID
		next.CreatedAt = current.CreatedAt
		next.User = nil

		if err := tx.Omit(clause.Associations).Save(&next).Error; err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &updated, nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Count(&count).Error
	return count, err
}
