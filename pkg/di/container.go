package di

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"group-task-organizer/application/serviceimpl"
	"group-task-organizer/domain/dto"
	"group-task-organizer/domain/ports"
	"group-task-organizer/domain/repositories"
	"group-task-organizer/domain/services"
	"group-task-organizer/infrastructure/memory"
	"group-task-organizer/infrastructure/messaging"
	natspkg "group-task-organizer/infrastructure/nats"
	"group-task-organizer/infrastructure/postgres"
	redispkg "group-task-organizer/infrastructure/redis"
	"group-task-organizer/interfaces/api/handlers"
	"group-task-organizer/pkg/config"
	"group-task-organizer/pkg/logger"
	"group-task-organizer/pkg/scheduler"
)

const (
	jobIdempotencyPurge = "idempotency-purge"
	jobStoreStats       = "store-stats"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB               *gorm.DB                // เฉพาะ STORE_DRIVER=postgres
	MemoryStore      *memory.Store           // เฉพาะ STORE_DRIVER=memory
	RedisClient      *redispkg.Client        // Idempotency keys (optional)
	NATSClient       *natspkg.Client         // Domain events (optional)
	IdempotencyStore ports.IdempotencyStore  // Redis หรือ memory
	memoryIdempotent *memory.IdempotencyStore // ต้อง purge เอง
	EventPublisher   ports.EventPublisher
	EventScheduler   scheduler.EventScheduler

	// Repositories
	UserRepository repositories.UserRepository
	TaskRepository repositories.TaskRepository

	// Services
	UserService  services.UserService
	TaskService  services.TaskService
	Housekeeping *serviceimpl.Housekeeping
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	if err := c.initStore(); err != nil {
		return err
	}

	c.initIdempotency()
	c.initEvents()

	return nil
}

// initStore เลือก entity store ตาม STORE_DRIVER
func (c *Container) initStore() error {
	switch c.Config.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := postgres.NewDatabase(postgres.DatabaseConfig{
			DSN:      c.Config.Database.DSN(),
			LogLevel: "warn",
		})
		if err != nil {
			return err
		}
		c.DB = db
		logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

		if err := postgres.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("Database migrated")
	default:
		c.MemoryStore = memory.NewStore()
		logger.Info("In-memory store initialized")
	}
	return nil
}

// initIdempotency ใช้ Redis ถ้าตั้ง REDIS_URL และเชื่อมต่อได้ ไม่งั้น fallback เป็น memory
func (c *Container) initIdempotency() {
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (using in-memory idempotency keys)", "error", err)
		} else {
			c.RedisClient = redisClient
			c.IdempotencyStore = redispkg.NewIdempotencyStore(redisClient)
			logger.Info("Redis idempotency store initialized")
			return
		}
	}

	c.memoryIdempotent = memory.NewIdempotencyStore()
	c.IdempotencyStore = c.memoryIdempotent
	logger.Info("In-memory idempotency store initialized")
}

// initEvents ใช้ NATS ถ้าตั้ง NATS_URL ไม่งั้นเป็น noop
func (c *Container) initEvents() {
	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
			URL:  c.Config.NATS.URL,
			Name: c.Config.App.Name,
		})
		if err != nil {
			logger.Warn("NATS client initialization failed (events disabled)", "error", err)
		} else {
			c.NATSClient = natsClient
			c.EventPublisher = messaging.NewNATSEventPublisher(natsClient.Conn(), c.Config.NATS.SubjectPrefix)
			logger.Info("NATS event publisher initialized",
				"url", c.Config.NATS.URL,
				"prefix", c.Config.NATS.SubjectPrefix,
			)
			return
		}
	}

	c.EventPublisher = messaging.NewNoopEventPublisher()
	logger.Info("Event publishing disabled (noop)")
}

func (c *Container) initRepositories() error {
	if c.DB != nil {
		c.UserRepository = postgres.NewUserRepository(c.DB)
		c.TaskRepository = postgres.NewTaskRepository(c.DB)
	} else {
		c.UserRepository = memory.NewUserRepository(c.MemoryStore)
		c.TaskRepository = memory.NewTaskRepository(c.MemoryStore)
	}

	logger.Info("Repositories initialized", "driver", c.Config.Store.Driver)
	return nil
}

func (c *Container) initServices() error {
	c.UserService = serviceimpl.NewUserService(c.UserRepository, c.EventPublisher)
	c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.UserRepository, c.EventPublisher)

	var expiring serviceimpl.ExpiringStore
	if c.memoryIdempotent != nil {
		expiring = c.memoryIdempotent
	}
	c.Housekeeping = serviceimpl.NewHousekeeping(c.UserRepository, c.TaskRepository, expiring)

	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	// Redis หมดอายุเอง ไม่ต้อง purge
	if c.memoryIdempotent != nil {
		if err := c.EventScheduler.AddJob(jobIdempotencyPurge, "* * * * *", func() {
			c.Housekeeping.PurgeIdempotencyKeys(context.Background())
		}); err != nil {
			return err
		}
	}

	if err := c.EventScheduler.AddJob(jobStoreStats, "*/5 * * * *", func() {
		_, _, _ = c.Housekeeping.ReportStoreStats(context.Background())
	}); err != nil {
		return err
	}

	c.EventScheduler.Start()
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	// Stop scheduler
	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", "error", err)
		}
	}

	// Close NATS connection
	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		} else {
			logger.Info("NATS connection closed")
		}
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := postgres.Close(c.DB); err != nil {
			logger.Warn("Failed to close database connection", "error", err)
		} else {
			logger.Info("Database connection closed")
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// JobStatuses รายการ scheduler jobs เรียงตามชื่อ สำหรับ /health
func (c *Container) JobStatuses() []dto.JobStatus {
	if c.EventScheduler == nil {
		return nil
	}

	jobs := c.EventScheduler.ListJobs()
	statuses := make([]dto.JobStatus, 0, len(jobs))
	for name, info := range jobs {
		statuses = append(statuses, dto.JobStatus{
			Name:    name,
			Cron:    info.CronExpr,
			LastRun: info.LastRun,
			NextRun: info.NextRun,
		})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService: c.UserService,
		TaskService: c.TaskService,
		ServiceName: c.Config.App.Name,
		StoreDriver: c.Config.Store.Driver,
		Jobs:        c.JobStatuses,
	}
}
