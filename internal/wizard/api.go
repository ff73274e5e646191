package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Account is the subset of the user record the wizard reads.
type Account struct {
	ID                 uint     `json:"id"`
	Email              string   `json:"email"`
	UserType           string   `json:"user_type"`
	Provider           string   `json:"oauth_provider"`
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	Phone              string   `json:"phone"`
	Headline           string   `json:"headline"`
	Summary            string   `json:"summary"`
	CurrentLocation    string   `json:"current_location"`
	Region             string   `json:"region"`
	ExperienceYears    *int     `json:"experience_years"`
	WillingToRelocate  bool     `json:"willing_to_relocate"`
	Skills             []string `json:"skills"`
	PreferredLocations []string `json:"preferred_locations"`
	ProfileCompletion  int      `json:"profile_completion"`
}

// IsGulf reports whether the account belongs to the Gulf region.
func (a Account) IsGulf() bool {
	return strings.EqualFold(strings.TrimSpace(a.Region), stateGulf)
}

// Profile is the body of GET /api/user/profile.
type Profile struct {
	User                  Account `json:"user"`
	RequiresPasswordSetup bool    `json:"requiresPasswordSetup"`
	HasPassword           bool    `json:"hasPassword"`
	PasswordSkipped       bool    `json:"passwordSkipped"`
	ProfileCompleted      bool    `json:"profileCompleted"`
}

// API is the backend surface the wizard talks to.
type API interface {
	// SetToken stores the bearer token used by every later call.
	SetToken(token string)
	Profile(ctx context.Context) (*Profile, error)
	SetupPassword(ctx context.Context, password string) (*Profile, error)
	SkipPassword(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, update *ProfileUpdate) (*Profile, error)
}

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
	Code    string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// IsAuthError reports whether err is a rejected or missing token.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == fiber.StatusUnauthorized || apiErr.Status == fiber.StatusForbidden
}

const defaultClientTimeout = 15 * time.Second

// Client implements API over HTTP with the fiber client.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

// NewClient returns a Client for the backend at baseURL, e.g. http://localhost:8375.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultClientTimeout,
	}
}

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, fiber.MethodGet, "/api/user/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetupPassword(ctx context.Context, password string) (*Profile, error) {
	var out Profile
	body := map[string]string{"password": password}
	if err := c.do(ctx, fiber.MethodPost, "/api/oauth/setup-password", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SkipPassword(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, fiber.MethodPost, "/api/oauth/skip-password-setup", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update *ProfileUpdate) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, fiber.MethodPut, "/api/user/update-profile", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	agent.Timeout(timeout)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		agent.JSON(body)
	}

	// Bytes releases the agent.
	status, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status}
		var payload struct {
			Error  string            `json:"error"`
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Error
			apiErr.Code = payload.Code
			apiErr.Fields = payload.Fields
		}
		return apiErr
	}

	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
