package services

import (
	"context"

	"group-task-organizer/domain/dto"
	"group-task-organizer/domain/models"
)

type TaskService interface {
	CreateTask(ctx context.Context, userID int64, req *dto.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, taskID int64) (*models.Task, error)
	// ListTasksForUser fails with KindNotFound when the user does not exist.
	ListTasksForUser(ctx context.Context, userID int64) ([]*models.Task, error)
	UpdateStatus(ctx context.Context, taskID int64, status string) (*models.Task, error)
	UpdateTask(ctx context.Context, taskID int64, req *dto.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID int64) error
}
