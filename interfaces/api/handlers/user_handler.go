package handlers

import (
	"github.com/gofiber/fiber/v2"

	"group-task-organizer/domain/dto"
	"group-task-organizer/domain/services"
	"group-task-organizer/pkg/logger"
	"group-task-organizer/pkg/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, dto.UsersToUserResponses(users))
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	user, err := h.userService.CreateUser(ctx, &req)
	if err != nil {
		return respondError(c, err)
	}

	return utils.CreatedResponse(c, dto.UserToUserResponse(user))
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid user ID")
	}

	user, err := h.userService.GetUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid user ID")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	user, err := h.userService.UpdateUser(ctx, userID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(c.UserContext(), userID); err != nil {
		return respondError(c, err)
	}

	return utils.NoContentResponse(c)
}
