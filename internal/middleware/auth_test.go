package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

func signToken(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func baseClaims(userID uint, exp time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":       strconv.FormatUint(uint64(userID), 10),
		"email":     "amal@example.com",
		"user_type": "jobseeker",
		"iss":       "jobportal-api",
		"aud":       "jobportal-client",
		"jti":       "jti-" + strconv.FormatUint(uint64(userID), 10),
		"exp":       time.Now().Add(exp).Unix(),
	}
}

func TestAuthRequired(t *testing.T) {
	cfg := AuthConfig{
		Secret:      testSecret,
		Issuer:      "jobportal-api",
		Audience:    "jobportal-client",
		Revocations: revokedSet{"jti-99": true},
	}

	app := fiber.New()
	app.Get("/test", AuthRequired(cfg), func(c *fiber.Ctx) error {
		claims, ok := CurrentClaims(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"userID": c.Locals("userID"), "email": claims.Email})
	})

	wrongIssuer := baseClaims(5, time.Hour)
	wrongIssuer["iss"] = "someone-else"
	wrongAudience := baseClaims(5, time.Hour)
	wrongAudience["aud"] = "other-client"
	missingSub := baseClaims(5, time.Hour)
	delete(missingSub, "sub")

	tests := []struct {
		name           string
		authHeader     string
		query          string
		expectedStatus int
		expectedUserID uint
	}{
		{
			name:           "Happy Path",
			authHeader:     "Bearer " + signToken(t, baseClaims(123, time.Hour), jwt.SigningMethodHS256),
			expectedStatus: http.StatusOK,
			expectedUserID: 123,
		},
		{
			name:           "Query Token Ignored",
			query:          "?token=" + signToken(t, baseClaims(7, time.Hour), jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Format",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed Token",
			authHeader:     "Bearer malformed.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + signToken(t, baseClaims(123, -time.Hour), jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Issuer",
			authHeader:     "Bearer " + signToken(t, wrongIssuer, jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Audience",
			authHeader:     "Bearer " + signToken(t, wrongAudience, jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Subject",
			authHeader:     "Bearer " + signToken(t, missingSub, jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Algorithm",
			authHeader:     "Bearer " + signToken(t, baseClaims(5, time.Hour), jwt.SigningMethodHS512),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Revoked Token",
			authHeader:     "Bearer " + signToken(t, baseClaims(99, time.Hour), jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test"+tt.query, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, float64(tt.expectedUserID), body["userID"])
				assert.Equal(t, "amal@example.com", body["email"])
			}
		})
	}
}

func TestParseAccessToken_Claims(t *testing.T) {
	cfg := AuthConfig{Secret: testSecret, Issuer: "jobportal-api", Audience: "jobportal-client"}
	claims := baseClaims(42, time.Hour)
	claims["user_type"] = "employer"

	parsed, err := ParseAccessToken(cfg, signToken(t, claims, jwt.SigningMethodHS256))
	require.NoError(t, err)
	assert.Equal(t, uint(42), parsed.UserID)
	assert.Equal(t, "employer", parsed.UserType)
	assert.Equal(t, "jti-42", parsed.JTI)
	assert.WithinDuration(t, time.Now().Add(time.Hour), parsed.ExpiresAt, 5*time.Second)

	_, err = ParseAccessToken(AuthConfig{Secret: "other-secret"}, signToken(t, claims, jwt.SigningMethodHS256))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
