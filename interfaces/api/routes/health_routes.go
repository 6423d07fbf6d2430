package routes

import (
	"github.com/gofiber/fiber/v2"

	"group-task-organizer/interfaces/api/handlers"
)

func SetupHealthRoutes(app fiber.Router, h *handlers.Handlers) {
	app.Get("/health", h.HealthHandler.Health)
}
