package routes

import (
	"github.com/gofiber/fiber/v2"

	"group-task-organizer/interfaces/api/handlers"
)

// SetupRoutes mounts every resource at the root; the UI calls /users and /tasks directly.
func SetupRoutes(app *fiber.App, h *handlers.Handlers) {
	SetupHealthRoutes(app, h)
	SetupUserRoutes(app, h)
	SetupTaskRoutes(app, h)
}
