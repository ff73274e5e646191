package server

import (
	"errors"
	"time"

	"jobportal/internal/cache"
	"jobportal/internal/middleware"
	"jobportal/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Logout handles POST /api/auth/logout
// @Summary Revoke the current access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 503 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return unauthorized(c)
	}
	if claims.JTI == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Token cannot be revoked"))
	}

	if err := s.blacklist.Revoke(c.UserContext(), claims.JTI, time.Until(claims.ExpiresAt)); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "token revocation failed", "error", err)
		if errors.Is(err, cache.ErrNoStore) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
				Error: "Logout is unavailable, try again later",
			})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}
