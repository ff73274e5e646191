package server

import (
	"errors"

	"jobportal/internal/middleware"
	"jobportal/internal/models"
	"jobportal/internal/oauth"
	"jobportal/internal/service"

	"github.com/gofiber/fiber/v2"
)

// BeginOAuth handles GET /api/oauth/:provider
// @Summary Start provider sign-in
// @Description Redirects to the provider consent screen. state=employer or state=gulf selects the flow.
// @Tags oauth
// @Param provider path string true "google or facebook"
// @Param state query string false "employer | gulf"
// @Success 302
// @Failure 404 {object} models.ErrorResponse
// @Router /oauth/{provider} [get]
func (s *Server) BeginOAuth(c *fiber.Ctx) error {
	authURL, err := s.oauthService.Begin(c.UserContext(), c.Params("provider"), c.Query("state"))
	if err != nil {
		if errors.Is(err, oauth.ErrUnknownProvider) || errors.Is(err, oauth.ErrProviderDisabled) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("OAuth provider", c.Params("provider")))
		}
		return respondServiceError(c, err)
	}
	return c.Redirect(authURL, fiber.StatusFound)
}

// OAuthCallback handles GET /api/oauth/:provider/callback
// @Summary Provider callback
// @Description Completes sign-in and redirects to the frontend wizard, or to the login page with an error flag.
// @Tags oauth
// @Param provider path string true "google or facebook"
// @Param code query string false "Authorization code"
// @Param state query string false "State nonce"
// @Param error query string false "Provider error"
// @Success 302
// @Router /oauth/{provider}/callback [get]
func (s *Server) OAuthCallback(c *fiber.Ctx) error {
	redirect, err := s.oauthService.Complete(c.UserContext(), service.CallbackInput{
		Provider: c.Params("provider"),
		Code:     c.Query("code"),
		State:    c.Query("state"),
		Error:    c.Query("error"),
	})
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "oauth callback failed",
			"provider", c.Params("provider"), "error", err)
	}
	return c.Redirect(redirect, fiber.StatusFound)
}

// GetOAuthURLs handles GET /api/oauth/urls
// @Summary Authorization URLs for every enabled provider
// @Tags oauth
// @Produce json
// @Param userType query string false "employer binds the employer flow"
// @Success 200 {object} map[string]string
// @Router /oauth/urls [get]
func (s *Server) GetOAuthURLs(c *fiber.Ctx) error {
	urls, err := s.oauthService.AuthURLs(c.UserContext(), c.Query("userType"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(urls)
}

// SetupPassword handles POST /api/oauth/setup-password
// @Summary Set the first password of an OAuth account
// @Tags oauth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{password=string} true "New password"
// @Success 200 {object} service.ProfileView
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /oauth/setup-password [post]
func (s *Server) SetupPassword(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Password is required"))
	}

	view, err := s.setupService.SetupPassword(c.UserContext(), userID, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// SkipPasswordSetup handles POST /api/oauth/skip-password-setup
// @Summary Skip password setup
// @Tags oauth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProfileView
// @Failure 403 {object} models.ErrorResponse
// @Router /oauth/skip-password-setup [post]
func (s *Server) SkipPasswordSetup(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	view, err := s.setupService.SkipPasswordSetup(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// SyncGoogleProfile handles POST /api/oauth/sync-google-profile
// @Summary Re-pull the Google profile
// @Tags oauth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProfileView
// @Failure 409 {object} models.ErrorResponse
// @Router /oauth/sync-google-profile [post]
func (s *Server) SyncGoogleProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	view, err := s.setupService.SyncProviderProfile(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}
