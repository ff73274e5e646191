package server

import (
	"jobportal/internal/models"
	"jobportal/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/user/profile
// @Summary Current user profile
// @Description Returns the user with requiresPasswordSetup, hasPassword, passwordSkipped and profileCompleted.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProfileView
// @Failure 401 {object} models.ErrorResponse
// @Router /user/profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	view, err := s.setupService.Profile(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// UpdateProfile handles PUT /api/user/update-profile
// @Summary Update the jobseeker profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileInput true "Profile fields"
// @Success 200 {object} service.ProfileView
// @Failure 400 {object} models.ErrorResponse
// @Router /user/update-profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	view, err := s.setupService.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// GetFeatureFlags returns configured feature flags and evaluated state for current user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
