package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"jobportal/internal/config"
	"jobportal/internal/database"
	"jobportal/internal/featureflags"
	"jobportal/internal/models"
	"jobportal/internal/oauth"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type stubProvider struct {
	name    string
	profile *oauth.Profile
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?" + url.Values{"state": {state}}.Encode()
}

func (p *stubProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "at-" + code, RefreshToken: "rt", Expiry: time.Now().Add(time.Hour)}, nil
}

func (p *stubProvider) FetchProfile(context.Context, *oauth2.Token) (*oauth.Profile, error) {
	return p.profile, nil
}

func (p *stubProvider) Refresh(context.Context, *oauth2.Token) (*oauth2.Token, error) {
	return nil, oauth.ErrRefreshUnsupported
}

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	mr  *miniredis.Miniredis
}

func newTestEnv(t *testing.T, flags string) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		JWTSecret:   testSecret,
		JWTTTLHours: 1,
		FrontendURL: "http://localhost:5173",
		Port:        "0",
	}
	google := &stubProvider{name: oauth.Google, profile: &oauth.Profile{
		Provider:       oauth.Google,
		ProviderUserID: "g-1",
		Email:          "layla@example.com",
		DisplayName:    "Layla Nasser",
		EmailVerified:  true,
	}}
	s := newServer(cfg, db, rdb, featureflags.NewManager(flags), oauth.NewRegistry(google))
	return &testEnv{app: s.App(), db: db, mr: mr}
}

func (e *testEnv) do(t *testing.T, method, target, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// login walks the provider redirect and callback and returns the frontend redirect.
func (e *testEnv) login(t *testing.T, state string) *url.URL {
	t.Helper()
	target := "/api/oauth/google"
	if state != "" {
		target += "?state=" + state
	}
	resp := e.do(t, http.MethodGet, target, "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	authURL, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	nonce := authURL.Query().Get("state")
	require.NotEmpty(t, nonce)
	assert.NotEqual(t, state, nonce)

	resp = e.do(t, http.MethodGet, "/api/oauth/google/callback?code=abc&state="+url.QueryEscape(nonce), "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	redirect, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	return redirect
}

func TestHealthChecks(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "healthy", body["status"])

	env.mr.SetError("LOADING")
	resp = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestBeginOAuth_UnknownProvider(t *testing.T) {
	env := newTestEnv(t, "")

	for _, provider := range []string{"github", "facebook"} {
		resp := env.do(t, http.MethodGet, "/api/oauth/"+provider, "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, provider)
	}
}

func TestOAuthURLs(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/api/oauth/urls?userType=employer", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	require.Contains(t, body, "google")
	assert.NotContains(t, body, "facebook")
}

func TestOAuthCallback_ErrorRedirects(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/api/oauth/google/callback?error=access_denied", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173/login?error=oauth_denied", resp.Header.Get("Location"))

	resp = env.do(t, http.MethodGet, "/api/oauth/google/callback?code=abc&state=forged", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173/login?error=invalid_state", resp.Header.Get("Location"))
}

func TestOAuthLogin_PasswordSetupAndLogout(t *testing.T) {
	env := newTestEnv(t, "")

	redirect := env.login(t, "")
	assert.Equal(t, "/oauth-callback", redirect.Path)
	assert.Equal(t, "true", redirect.Query().Get("needsPasswordSetup"))
	token := redirect.Query().Get("token")
	require.NotEmpty(t, token)

	resp := env.do(t, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, true, body["requiresPasswordSetup"])
	assert.Equal(t, false, body["hasPassword"])

	resp = env.do(t, http.MethodPost, "/api/oauth/setup-password", token, map[string]string{"password": "weak"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/oauth/setup-password", token, map[string]string{"password": "Str0ngPass"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode(t, resp)
	assert.Equal(t, true, body["hasPassword"])
	assert.Equal(t, false, body["requiresPasswordSetup"])

	resp = env.do(t, http.MethodPost, "/api/oauth/setup-password", token, map[string]string{"password": "An0therPass"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/user/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOAuthLogin_EmployerIntent(t *testing.T) {
	env := newTestEnv(t, "")

	redirect := env.login(t, "employer")
	assert.Equal(t, "/employer-oauth-callback", redirect.Path)
	assert.Equal(t, "employer", redirect.Query().Get("userType"))
	assert.Equal(t, "employer", redirect.Query().Get("state"))

	var user models.User
	require.NoError(t, env.db.Preload("Company").First(&user).Error)
	assert.Equal(t, models.UserTypeEmployer, user.UserType)
	require.NotNil(t, user.Company)
}

func TestSkipPasswordSetup(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		env := newTestEnv(t, "password_skip=on")
		token := env.login(t, "").Query().Get("token")

		resp := env.do(t, http.MethodPost, "/api/oauth/skip-password-setup", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode(t, resp)
		assert.Equal(t, true, body["passwordSkipped"])
		assert.Equal(t, false, body["requiresPasswordSetup"])
	})

	t.Run("disabled", func(t *testing.T) {
		env := newTestEnv(t, "password_skip=off")
		token := env.login(t, "").Query().Get("token")

		resp := env.do(t, http.MethodPost, "/api/oauth/skip-password-setup", token, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t, "")
	token := env.login(t, "").Query().Get("token")

	resp := env.do(t, http.MethodPut, "/api/user/update-profile", token, map[string]any{"first_name": "Layla"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok, "expected field errors, got %v", body)
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "last_name")

	resp = env.do(t, http.MethodPut, "/api/user/update-profile", token, map[string]any{
		"first_name": "Layla",
		"last_name":  "Nasser",
		"phone":      "+971 50 123 4567",
		"skills":     []string{"Go, SQL", "go"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode(t, resp)
	assert.Equal(t, true, body["profileCompleted"])
	user := body["user"].(map[string]any)
	assert.Equal(t, []any{"Go", "SQL"}, user["skills"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, "")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/user/profile"},
		{http.MethodPut, "/api/user/update-profile"},
		{http.MethodPost, "/api/oauth/setup-password"},
		{http.MethodPost, "/api/oauth/skip-password-setup"},
		{http.MethodPost, "/api/oauth/sync-google-profile"},
		{http.MethodPost, "/api/auth/logout"},
	} {
		resp := env.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, tc.path)
	}
}
