package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"group-task-organizer/pkg/logger"
	"group-task-organizer/pkg/utils"
)

// ErrorHandler รับ error ที่หลุดจาก handler (route ไม่เจอ, method ผิด, panic ที่ recover แล้ว)
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := utils.ErrCodeInternalError
		message := "Internal server error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
			switch code {
			case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
				errCode = utils.ErrCodeBadRequest
			case fiber.StatusNotFound:
				errCode = utils.ErrCodeNotFound
			case fiber.StatusMethodNotAllowed:
				errCode = utils.ErrCodeMethodNotAllowed
			case fiber.StatusConflict:
				errCode = utils.ErrCodeConflict
			}
		}

		if code >= fiber.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "Request failed", "path", c.Path(), "error", err)
		} else {
			logger.WarnContext(c.UserContext(), "Request rejected", "path", c.Path(), "status", code, "error", err)
		}

		return utils.ErrorResponse(c, code, errCode, message, nil)
	}
}
