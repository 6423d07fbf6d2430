package api

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"group-task-organizer/domain/ports"
	"group-task-organizer/interfaces/api/handlers"
	"group-task-organizer/interfaces/api/middleware"
	"group-task-organizer/interfaces/api/routes"
)

const defaultBodyLimit = 1 * 1024 * 1024 // 1MB, payloads are small JSON documents

type ServerConfig struct {
	AppName          string
	AllowOrigins     string
	Idempotency      ports.IdempotencyStore // nil ปิด Idempotency-Key
	IdempotencyTTL   time.Duration
	BodyLimit        int
	DisableStartupUI bool
}

// NewServer builds the Fiber app with middleware and routes mounted.
func NewServer(cfg ServerConfig, services *handlers.Services) *fiber.App {
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}
	ttl := cfg.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		AppName:               cfg.AppName,
		BodyLimit:             bodyLimit,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: cfg.DisableStartupUI,
	})

	// Setup middleware (order matters!)
	app.Use(middleware.RecoverMiddleware())
	app.Use(middleware.RequestIDMiddleware()) // ต้องมาก่อน logger
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CorsMiddleware(cfg.AllowOrigins))
	app.Use(middleware.IdempotencyMiddleware(cfg.Idempotency, ttl))

	h := handlers.NewHandlers(services)
	routes.SetupRoutes(app, h)

	return app
}
