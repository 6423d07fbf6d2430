package routes

import (
	"github.com/gofiber/fiber/v2"

	"group-task-organizer/interfaces/api/handlers"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers) {
	tasks := api.Group("/tasks")
	tasks.Get("/:id", h.TaskHandler.GetTask)
	tasks.Put("/:id", h.TaskHandler.UpdateTask)
	tasks.Patch("/:id/status", h.TaskHandler.UpdateTaskStatus)
	tasks.Delete("/:id", h.TaskHandler.DeleteTask)
}
