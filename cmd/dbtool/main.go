// Command dbtool runs maintenance against the configured backends:
//
//	dbtool migrate              create or update the users/tasks schema
//	dbtool reset                empty users and tasks (ids restart at 1)
//	dbtool clear-idempotency    drop stored Idempotency-Key responses from Redis
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"group-task-organizer/infrastructure/postgres"
	redispkg "group-task-organizer/infrastructure/redis"
	"group-task-organizer/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "migrate":
		err = withDatabase(cfg, func(db *gorm.DB) error {
			return postgres.Migrate(db)
		})
	case "reset":
		err = withDatabase(cfg, func(db *gorm.DB) error {
			if err := postgres.Migrate(db); err != nil {
				return err
			}
			return postgres.Reset(db)
		})
	case "clear-idempotency":
		err = clearIdempotency(cfg)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Printf("%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	fmt.Printf("%s: done\n", os.Args[1])
}

func usage() {
	fmt.Println("usage: dbtool <migrate|reset|clear-idempotency>")
}

func withDatabase(cfg *config.Config, fn func(db *gorm.DB) error) error {
	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		DSN:      cfg.Database.DSN(),
		LogLevel: "silent",
	})
	if err != nil {
		return err
	}
	defer postgres.Close(db)

	fmt.Printf("Connected to %s/%s\n", cfg.Database.Host, cfg.Database.DBName)
	return fn(db)
}

func clearIdempotency(cfg *config.Config) error {
	if cfg.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is not set (in-memory keys vanish on restart)")
	}

	client, err := redispkg.NewClient(&cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := redispkg.NewIdempotencyStore(client).Clear(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d idempotency keys\n", removed)
	return nil
}
