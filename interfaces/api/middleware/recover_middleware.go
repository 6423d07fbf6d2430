package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"group-task-organizer/pkg/logger"
)

// RecoverMiddleware แปลง panic เป็น 500 และ log พร้อม request ID
func RecoverMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.Error("Panic recovered",
				"request_id", GetRequestIDFromContext(c),
				"method", c.Method(),
				"path", c.Path(),
				"panic", e,
			)
		},
	})
}
