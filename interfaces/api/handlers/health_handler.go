package handlers

import (
	"github.com/gofiber/fiber/v2"

	"group-task-organizer/domain/dto"
	"group-task-organizer/pkg/utils"
)

type HealthHandler struct {
	service string
	store   string
	jobs    func() []dto.JobStatus
}

func NewHealthHandler(service, store string, jobs func() []dto.JobStatus) *HealthHandler {
	return &HealthHandler{
		service: service,
		store:   store,
		jobs:    jobs,
	}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:  "ok",
		Service: h.service,
		Store:   h.store,
	}
	if h.jobs != nil {
		resp.Jobs = h.jobs()
	}
	return utils.SuccessResponse(c, resp)
}
