package serviceimpl

import (
	"context"
	"errors"

	"group-task-organizer/domain/dto"
	"group-task-organizer/domain/models"
	"group-task-organizer/domain/ports"
	"group-task-organizer/domain/repositories"
	"group-task-organizer/domain/services"
	"group-task-organizer/pkg/logger"
	"group-task-organizer/pkg/utils"
)

type TaskServiceImpl struct {
	taskRepo repositories.TaskRepository
	userRepo repositories.UserRepository
	events   ports.EventPublisher
}

func NewTaskService(taskRepo repositories.TaskRepository, userRepo repositories.UserRepository, events ports.EventPublisher) services.TaskService {
	return &TaskServiceImpl{
		taskRepo: taskRepo,
		userRepo: userRepo,
		events:   events,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID int64, req *dto.CreateTaskRequest) (*models.Task, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			logger.WarnContext(ctx, "User not found for task creation", "user_id", userID)
			return nil, services.NotFoundError("user not found")
		}
		return nil, err
	}

	req.Normalize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, services.ValidationError("Invalid task", utils.GetValidationErrors(err))
	}

	// validator already accepted both values
	deadline, _ := models.ParseDate(req.Deadline)
	status, _ := models.ParseTaskStatus(req.Status)

	task := &models.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Deadline:    deadline,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		if errors.Is(err, repositories.ErrOwnerMissing) {
			// user was deleted between the check above and the insert
			logger.WarnContext(ctx, "Owner vanished during task creation", "user_id", userID)
			return nil, services.InvalidReferenceError("user no longer exists")
		}
		logger.ErrorContext(ctx, "Failed to create task", "user_id", userID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Task created", "task_id", task.ID, "user_id", userID)
	publish(ctx, s.events, ports.NewEvent(ports.EventTaskCreated, task.ID, task.UserID, dto.TaskToTaskResponse(task)))

	return task, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID int64) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, services.NotFoundError("task not found")
		}
		logger.ErrorContext(ctx, "Failed to get task", "task_id", taskID, "error", err)
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) ListTasksForUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	tasks, err := s.taskRepo.ListByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrOwnerMissing) {
			return nil, services.NotFoundError("user not found")
		}
		logger.ErrorContext(ctx, "Failed to list user tasks", "user_id", userID, "error", err)
		return nil, err
	}
	return tasks, nil
}

// UpdateStatus sets any recognized status; there is no transition graph.
func (s *TaskServiceImpl) UpdateStatus(ctx context.Context, taskID int64, status string) (*models.Task, error) {
	req := dto.UpdateTaskStatusRequest{Status: status}
	req.Normalize()
	if err := utils.ValidateStruct(&req); err != nil {
		return nil, services.ValidationError("Invalid status", utils.GetValidationErrors(err))
	}

	task, err := s.taskRepo.Update(ctx, taskID, func(t *models.Task) error {
		t.Status = models.TaskStatus(req.Status)
		return nil
	})
	if err != nil {
		return nil, s.translateWriteError(ctx, taskID, err)
	}

	logger.InfoContext(ctx, "Task status updated", "task_id", taskID, "status", task.Status)
	publish(ctx, s.events, ports.NewEvent(ports.EventTaskUpdated, task.ID, task.UserID, dto.TaskToTaskResponse(task)))

	return task, nil
}

// UpdateTask replaces title, description, status and deadline. An omitted
// status becomes todo, the same default as creation.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, taskID int64, req *dto.UpdateTaskRequest) (*models.Task, error) {
	req.Normalize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, services.ValidationError("Invalid task", utils.GetValidationErrors(err))
	}

	deadline, _ := models.ParseDate(req.Deadline)
	status, _ := models.ParseTaskStatus(req.Status)

	task, err := s.taskRepo.Update(ctx, taskID, func(t *models.Task) error {
		if req.UserID != 0 && req.UserID != t.UserID {
			return services.ValidationError("Invalid task", map[string]string{
				"user_id": "cannot be changed",
			})
		}
		t.Title = req.Title
		t.Description = req.Description
		t.Status = status
		t.Deadline = deadline
		return nil
	})
	if err != nil {
		return nil, s.translateWriteError(ctx, taskID, err)
	}

	logger.InfoContext(ctx, "Task updated", "task_id", taskID)
	publish(ctx, s.events, ports.NewEvent(ports.EventTaskUpdated, task.ID, task.UserID, dto.TaskToTaskResponse(task)))

	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, taskID int64) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
		logger.ErrorContext(ctx, "Failed to load task for deletion", "task_id", taskID, "error", err)
		return err
	}

	// the delete itself decides; a concurrent delete may win after the read above
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			logger.WarnContext(ctx, "Task not found for deletion", "task_id", taskID)
			return services.NotFoundError("task not found")
		}
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "error", err)
		return err
	}

	var ownerID int64
	if task != nil {
		ownerID = task.UserID
	}

	logger.InfoContext(ctx, "Task deleted", "task_id", taskID)
	publish(ctx, s.events, ports.NewEvent(ports.EventTaskDeleted, taskID, ownerID, nil))

	return nil
}

func (s *TaskServiceImpl) translateWriteError(ctx context.Context, taskID int64, err error) error {
	var svcErr *services.Error
	switch {
	case errors.As(err, &svcErr):
		return svcErr
	case errors.Is(err, repositories.ErrRecordNotFound):
		logger.WarnContext(ctx, "Task not found for update", "task_id", taskID)
		return services.NotFoundError("task not found")
	}
	logger.ErrorContext(ctx, "Failed to update task", "task_id", taskID, "error", err)
	return err
}
