package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware UI รันคนละ origin/port กับ service จึงต้องเปิด CORS
func CorsMiddleware(allowOrigins string) fiber.Handler {
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,X-Request-ID,Idempotency-Key",
		ExposeHeaders:    "X-Request-ID,Idempotent-Replayed",
		AllowCredentials: false, // ไม่มี auth/cookies และ "*" ใช้คู่กับ credentials ไม่ได้
	})
}
