package handlers

import (
	"group-task-organizer/domain/dto"
	"group-task-organizer/domain/services"
)

// Services contains all the services needed for handlers
type Services struct {
	UserService services.UserService
	TaskService services.TaskService
	ServiceName string
	StoreDriver string                 // memory หรือ postgres
	Jobs        func() []dto.JobStatus // scheduler jobs ที่กำลังทำงาน (optional)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	UserHandler   *UserHandler
	TaskHandler   *TaskHandler
	HealthHandler *HealthHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		UserHandler:   NewUserHandler(services.UserService),
		TaskHandler:   NewTaskHandler(services.TaskService),
		HealthHandler: NewHealthHandler(services.ServiceName, services.StoreDriver, services.Jobs),
	}
}
