package handlers

import (
	"github.com/gofiber/fiber/v2"

	"group-task-organizer/domain/dto"
	"group-task-organizer/domain/services"
	"group-task-organizer/pkg/logger"
	"group-task-organizer/pkg/utils"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListUserTasks - GET /users/:id/tasks
func (h *TaskHandler) ListUserTasks(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid user ID")
	}

	tasks, err := h.taskService.ListTasksForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.TasksToTaskResponses(tasks))
}

// CreateTask - POST /users/:id/tasks
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid user ID")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.taskService.CreateTask(ctx, userID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return utils.CreatedResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	task, err := h.taskService.GetTask(c.UserContext(), taskID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

// UpdateTask - PUT /tasks/:id รับ task ทั้งก้อนรวม status
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.taskService.UpdateTask(ctx, taskID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

// UpdateTaskStatus - PATCH /tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.taskService.UpdateStatus(ctx, taskID, req.Status)
	if err != nil {
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	if err := h.taskService.DeleteTask(c.UserContext(), taskID); err != nil {
		return respondError(c, err)
	}

	return utils.NoContentResponse(c)
}
