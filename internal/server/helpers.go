package server

import (
	"errors"

	"jobportal/internal/middleware"
	"jobportal/internal/models"
	"jobportal/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// currentUserID returns the id stored by AuthRequired.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok && id != 0
}

// respondServiceError writes err with the status its AppError code maps to.
// Errors without a code are logged and answered as 500 without details.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed", "path", c.Path(), "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if appErr.Code == models.CodeInternal {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed", "path", c.Path(), "error", appErr.Err)
	}

	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  appErr.Message,
			"code":   appErr.Code,
			"fields": fields,
		})
	}
	return models.RespondWithError(c, models.StatusFor(err), err)
}

func unauthorized(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusUnauthorized,
		models.NewUnauthorizedError("Authorization required"))
}
