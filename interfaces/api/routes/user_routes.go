package routes

import (
	"github.com/gofiber/fiber/v2"

	"group-task-organizer/interfaces/api/handlers"
)

func SetupUserRoutes(api fiber.Router, h *handlers.Handlers) {
	users := api.Group("/users")
	users.Get("/", h.UserHandler.ListUsers)
	users.Post("/", h.UserHandler.CreateUser)
	users.Get("/:id", h.UserHandler.GetUser)
	users.Put("/:id", h.UserHandler.UpdateUser)
	users.Delete("/:id", h.UserHandler.DeleteUser)

	// tasks ของ user
	users.Get("/:id/tasks", h.TaskHandler.ListUserTasks)
	users.Post("/:id/tasks", h.TaskHandler.CreateTask)
}
