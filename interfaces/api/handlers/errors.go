package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"group-task-organizer/domain/services"
	"group-task-organizer/pkg/logger"
	"group-task-organizer/pkg/utils"
)

// respondError maps a service error to its HTTP status. Anything that is not
// a *services.Error is logged and answered with a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		logger.ErrorContext(c.UserContext(), "Unhandled service error",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return utils.InternalServerErrorResponse(c)
	}

	switch svcErr.Kind {
	case services.KindValidation:
		var details any
		if len(svcErr.Fields) > 0 {
			details = svcErr.Fields
		}
		return utils.ValidationErrorResponse(c, svcErr.Message, details)
	case services.KindNotFound:
		return utils.NotFoundResponse(c, svcErr.Message)
	case services.KindConflict:
		return utils.ConflictResponse(c, svcErr.Message)
	case services.KindInvalidReference:
		return utils.InvalidReferenceResponse(c, svcErr.Message)
	}
	return utils.InternalServerErrorResponse(c)
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *fiber.Ctx, name string) (int64, bool) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logger.WarnContext(c.UserContext(), "Invalid id parameter", "param", name, "value", raw)
		return 0, false
	}
	return id, true
}
