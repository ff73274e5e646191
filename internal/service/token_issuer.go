package service

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"jobportal/internal/models"
	"jobportal/internal/oauth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token claims shared with the auth middleware.
const (
	TokenIssuerClaim = "jobportal-api"
	TokenAudience    = "jobportal-client"
)

// Frontend routes the issuer redirects to.
const (
	JobseekerCallbackPath = "/oauth-callback"
	EmployerCallbackPath  = "/employer-oauth-callback"
	JobseekerLoginPath    = "/login"
	EmployerLoginPath     = "/employer-login"
)

// Login error flags.
const (
	LoginErrorDenied        = "oauth_denied"
	LoginErrorInvalidState  = "invalid_state"
	LoginErrorOAuthFailed   = "oauth_failed"
	LoginErrorAuthFailed    = "authentication_failed"
	LoginErrorEmployerSetup = "employer_setup_failed"
)

// IssuedToken is a signed session token and its registered claims.
type IssuedToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// TokenIssuer signs session tokens and builds frontend redirects. It never
// touches storage.
type TokenIssuer struct {
	secret      []byte
	ttl         time.Duration
	frontendURL string
	now         func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration, frontendURL string) *TokenIssuer {
	return &TokenIssuer{
		secret:      []byte(secret),
		ttl:         ttl,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// Mint signs an HS256 token for user.
func (i *TokenIssuer) Mint(user *models.User) (*IssuedToken, error) {
	if user == nil || user.ID == 0 {
		return nil, errors.New("cannot mint a token for an unsaved user")
	}
	now := i.now().UTC()
	exp := now.Add(i.ttl)
	jti := uuid.NewString()

	claims := jwt.MapClaims{
		"sub":       strconv.FormatUint(uint64(user.ID), 10),
		"email":     user.Email,
		"user_type": string(user.UserType),
		"iss":       TokenIssuerClaim,
		"aud":       TokenAudience,
		"iat":       now.Unix(),
		"nbf":       now.Unix(),
		"exp":       exp.Unix(),
		"jti":       jti,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: signed, JTI: jti, ExpiresAt: exp}, nil
}

// CallbackPath picks the frontend wizard route from the persisted role.
func CallbackPath(user *models.User) string {
	if user.IsEmployer() {
		return EmployerCallbackPath
	}
	return JobseekerCallbackPath
}

// Redirect mints a token and returns the role-specific wizard URL carrying it.
func (i *TokenIssuer) Redirect(user *models.User, intent oauth.Intent) (string, error) {
	issued, err := i.Mint(user)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("token", issued.Token)
	q.Set("provider", string(user.Provider))
	q.Set("needsPasswordSetup", strconv.FormatBool(user.NeedsPasswordSetup()))
	q.Set("userType", string(user.UserType))
	if intent != oauth.IntentNone {
		q.Set("state", intent.String())
	}
	return i.frontendURL + CallbackPath(user) + "?" + q.Encode(), nil
}

// LoginErrorRedirect returns the login page for the flow's role with an error flag.
func (i *TokenIssuer) LoginErrorRedirect(employer bool, code string) string {
	path := JobseekerLoginPath
	if employer {
		path = EmployerLoginPath
	}
	return i.frontendURL + path + "?" + url.Values{"error": {code}}.Encode()
}
