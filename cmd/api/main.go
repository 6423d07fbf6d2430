package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"group-task-organizer/interfaces/api"
	"group-task-organizer/pkg/di"
	"group-task-organizer/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize DI container
	container := di.NewContainer()

	// Initialize all dependencies (including logger)
	if err := container.Initialize(); err != nil {
		// ใช้ log พื้นฐานก่อน logger init
		panic("Failed to initialize container: " + err.Error())
	}

	cfg := container.GetConfig()

	app := api.NewServer(api.ServerConfig{
		AppName:        cfg.App.Name,
		AllowOrigins:   cfg.CORS.AllowOrigins,
		Idempotency:    container.IdempotencyStore,
		IdempotencyTTL: cfg.Idempotency.TTL,
	}, container.GetHandlerServices())

	// Setup graceful shutdown
	setupGracefulShutdown(app, container)

	// Start server
	port := cfg.App.Port
	logger.Info("Server starting",
		"port", port,
		"env", cfg.App.Env,
		"app", cfg.App.Name,
		"store", cfg.Store.Driver,
	)
	logger.Info("Endpoints available",
		"health", "http://localhost:"+port+"/health",
		"users", "http://localhost:"+port+"/users",
	)

	if err := app.Listen(":" + port); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func setupGracefulShutdown(app *fiber.App, container *di.Container) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")

		// รอ request ที่ค้างอยู่ก่อนปิด store
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}

		if err := container.Cleanup(); err != nil {
			logger.Error("Error during cleanup", "error", err)
		}

		logger.Info("Shutdown complete")
		os.Exit(0)
	}()
}
